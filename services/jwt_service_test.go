package services

import (
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signcraft-http-service/config"
	"signcraft-http-service/models"
)

func newJWTService() InterfaceJWTService {
	return NewJWTService(testConfig())
}

func testUser() *models.User {
	user := &models.User{
		TenantID: 7,
		Email:    "admin@acme.test",
		Role:     models.UserRoleTenantAdmin,
	}
	user.ID = 42
	return user
}

func TestGenerateAndExtractClaims(t *testing.T) {
	service := newJWTService()

	token, err := service.GenerateToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, uint(7), claims.TenantID)
	assert.Equal(t, "admin@acme.test", claims.Email)
	assert.Equal(t, string(models.UserRoleTenantAdmin), claims.Role)
	assert.Equal(t, "signcraft-http-service", claims.Issuer)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	service := newJWTService()
	token, err := service.GenerateToken(testUser())
	require.NoError(t, err)

	other := NewJWTService(&config.Config{JWTSecretKey: "another-secret"})
	_, err = other.ExtractClaims(token)
	require.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	service := newJWTService()
	_, err := service.ExtractClaims("not.a.token")
	require.Error(t, err)
}

func TestValidateTokenRejectsUnsignedAlg(t *testing.T) {
	// alg=none 的令牌必须被拒绝
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": 42.0, "tenant_id": 7.0,
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	service := newJWTService()
	_, err = service.ValidateToken(raw)
	require.Error(t, err)
}

func TestVerifyDashboardToken(t *testing.T) {
	service := newJWTService()
	token, err := service.GenerateToken(testUser())
	require.NoError(t, err)

	tenantID, userID, err := service.VerifyDashboardToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), tenantID)
	assert.Equal(t, uint(42), userID)
}

func TestVerifyDashboardTokenMissingClaims(t *testing.T) {
	service := newJWTService()

	// 没有租户声明的令牌不能用于仪表盘连接
	user := &models.User{Email: "ghost@acme.test"}
	token, err := service.GenerateToken(user)
	require.NoError(t, err)

	_, _, err = service.VerifyDashboardToken(token)
	require.Error(t, err)
}
