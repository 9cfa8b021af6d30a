package services

import (
	"errors"
	"signcraft-http-service/config"
	"signcraft-http-service/models"
	"signcraft-http-service/utils"
	"strings"

	"gorm.io/gorm"
)

// RegisterInput 注册请求的输入参数
type RegisterInput struct {
	Email            string
	Password         string
	FirstName        string
	LastName         string
	OrganizationName string
}

// InterfaceUserService defines the user service interface
type InterfaceUserService interface {
	Authenticate(email, password string) (*models.User, error)
	Register(input RegisterInput) (*models.User, error)
	GetUserByID(tenantID, id uint) (*models.User, error)
}

// UserService 提供仪表盘用户相关的服务
type UserService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewUserService 创建一个新的用户服务
func NewUserService(db *gorm.DB, cfg *config.Config) InterfaceUserService {
	return &UserService{
		DB:     db,
		Config: cfg,
	}
}

// Authenticate 校验邮箱和密码，成功返回用户
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("邮箱或密码错误")
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, errors.New("邮箱或密码错误")
	}

	return &user, nil
}

// Register 注册新用户并创建对应的租户
func (s *UserService) Register(input RegisterInput) (*models.User, error) {
	email := strings.ToLower(input.Email)

	// 验证邮箱唯一性
	var count int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("该邮箱已被注册")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, errors.New("密码加密失败")
	}

	orgName := input.OrganizationName
	if orgName == "" {
		orgName = input.FirstName + "'s Organization"
	}

	var user models.User
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		tenant := models.Tenant{
			Name: orgName,
			Slug: utils.Slugify(orgName),
		}
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}

		user = models.User{
			TenantID:  tenant.ID,
			Email:     email,
			Password:  hashedPassword,
			FirstName: input.FirstName,
			LastName:  input.LastName,
			// 首个用户即租户管理员
			Role: models.UserRoleTenantAdmin,
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUserByID 根据ID获取用户
func (s *UserService) GetUserByID(tenantID, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("id = ? AND tenant_id = ?", id, tenantID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("用户不存在")
		}
		return nil, err
	}
	return &user, nil
}
