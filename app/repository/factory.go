package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Repositories bundles all repository instances
type Repositories struct {
	Token    TokenRepository
	Recharge RechargeRepository
	Balance  BalanceRepository
	Project  ProjectRepository
}

// NewRepositories creates all repositories against one database handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Token:    NewTokenRepository(db),
		Recharge: NewRechargeRepository(db),
		Balance:  NewBalanceRepository(db),
		Project:  NewProjectRepository(db),
	}
}

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{db: db}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetTokenRepository returns the token repository instance
func (f *Factory) GetTokenRepository() TokenRepository {
	return f.GetRepositories().Token
}

// GetRechargeRepository returns the recharge repository instance
func (f *Factory) GetRechargeRepository() RechargeRepository {
	return f.GetRepositories().Recharge
}

// GetBalanceRepository returns the balance repository instance
func (f *Factory) GetBalanceRepository() BalanceRepository {
	return f.GetRepositories().Balance
}

// GetProjectRepository returns the project repository instance
func (f *Factory) GetProjectRepository() ProjectRepository {
	return f.GetRepositories().Project
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory
func GetGlobalFactory() *Factory {
	return globalFactory
}
