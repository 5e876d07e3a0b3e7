package operator

// TokenValidatorAdapter narrows JWTService to the middleware's validator
// interface, returning just the operator name.
type TokenValidatorAdapter struct {
	service *JWTService
}

func NewTokenValidatorAdapter(service *JWTService) *TokenValidatorAdapter {
	return &TokenValidatorAdapter{service: service}
}

func (a *TokenValidatorAdapter) ValidateToken(tokenString string) (string, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Operator, nil
}
