package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signcraft-http-service/models"
)

func TestRegisterCreatesTenantAndAdmin(t *testing.T) {
	db := newTestDB(t)
	service := NewUserService(db, testConfig())

	user, err := service.Register(RegisterInput{
		Email:            "Owner@Acme.Test",
		Password:         "s3cret-pass",
		FirstName:        "Alex",
		LastName:         "Chen",
		OrganizationName: "Acme Signage",
	})
	require.NoError(t, err)

	// 邮箱统一小写，首个用户即管理员
	assert.Equal(t, "owner@acme.test", user.Email)
	assert.Equal(t, models.UserRoleTenantAdmin, user.Role)
	assert.NotEqual(t, "s3cret-pass", user.Password, "密码必须哈希存储")

	var tenant models.Tenant
	require.NoError(t, db.First(&tenant, user.TenantID).Error)
	assert.Equal(t, "Acme Signage", tenant.Name)
	assert.Equal(t, "acme-signage", tenant.Slug)
}

func TestRegisterDefaultsOrganizationName(t *testing.T) {
	db := newTestDB(t)
	service := NewUserService(db, testConfig())

	user, err := service.Register(RegisterInput{
		Email: "solo@acme.test", Password: "pw123456", FirstName: "Sam",
	})
	require.NoError(t, err)

	var tenant models.Tenant
	require.NoError(t, db.First(&tenant, user.TenantID).Error)
	assert.Equal(t, "Sam's Organization", tenant.Name)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	service := NewUserService(db, testConfig())

	_, err := service.Register(RegisterInput{
		Email: "owner@acme.test", Password: "pw123456", OrganizationName: "Acme",
	})
	require.NoError(t, err)

	_, err = service.Register(RegisterInput{
		Email: "OWNER@acme.test", Password: "pw123456", OrganizationName: "Beta",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "已被注册")
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	service := NewUserService(db, testConfig())

	registered, err := service.Register(RegisterInput{
		Email: "owner@acme.test", Password: "pw123456", OrganizationName: "Acme",
	})
	require.NoError(t, err)

	user, err := service.Authenticate("owner@acme.test", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	// 密码错误与用户不存在返回同样的提示
	_, wrongPass := service.Authenticate("owner@acme.test", "wrong")
	_, noUser := service.Authenticate("ghost@acme.test", "pw123456")
	require.Error(t, wrongPass)
	require.Error(t, noUser)
	assert.Equal(t, wrongPass.Error(), noUser.Error())
}

func TestGetUserByIDScopedToTenant(t *testing.T) {
	db := newTestDB(t)
	service := NewUserService(db, testConfig())

	user, err := service.Register(RegisterInput{
		Email: "owner@acme.test", Password: "pw123456", OrganizationName: "Acme",
	})
	require.NoError(t, err)

	got, err := service.GetUserByID(user.TenantID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = service.GetUserByID(user.TenantID+1, user.ID)
	require.Error(t, err)
}
