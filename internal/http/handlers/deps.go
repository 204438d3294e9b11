package handlers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"salesapi/internal/config"
	"salesapi/internal/repos"
	"salesapi/internal/services"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler    *AuthHandler
	UserHandler    *UserHandler
	ProductHandler *ProductHandler
	SaleHandler    *SaleHandler
	AdminHandler   *AdminHandler

	// LoginLimit is the number of login attempts allowed per IP per 10 minutes.
	LoginLimit int
}

// NewDeps builds services and handlers over db. salesCache may be nil.
func NewDeps(db *sqlx.DB, cfg config.Config, salesCache services.SalesCache, logger *zap.Logger) *Deps {
	store := repos.NewStore(db)

	authSvc := &services.AuthService{Users: store.Users, Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL}
	userSvc := services.NewUserService(store.Users, cfg.BcryptCost, logger.Named("users"))
	productSvc := services.NewProductService(store.Products, logger.Named("products"))
	saleSvc := services.NewSaleService(store, salesCache, logger.Named("sales"))

	return &Deps{
		Auth:           authSvc,
		AuthHandler:    &AuthHandler{Auth: authSvc, SecureCookie: cfg.SecureCookie},
		UserHandler:    &UserHandler{Users: userSvc},
		ProductHandler: &ProductHandler{Products: productSvc},
		SaleHandler:    &SaleHandler{Sales: saleSvc},
		AdminHandler:   &AdminHandler{Sales: saleSvc},
		LoginLimit:     5,
	}
}
