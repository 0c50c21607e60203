package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"medirural/internal/auth"
	"medirural/internal/domain"
	"medirural/internal/service"
	"medirural/internal/websocket"
)

type Server struct {
	engine    *gin.Engine
	accounts  *service.AccountService
	medicines *service.MedicineService
	orders    *service.OrderService
	tokens    *auth.TokenManager
	hub       *websocket.Hub
	logger    *logrus.Logger
	opts      Options
}

type Options struct {
	CORSOrigins []string
	// SecureCookie выставляет флаг Secure у cookie с токеном
	SecureCookie bool
	// MaxUploadBytes предел размера файла импорта каталога
	MaxUploadBytes int64
}

func NewServer(
	accounts *service.AccountService,
	medicines *service.MedicineService,
	orders *service.OrderService,
	tokens *auth.TokenManager,
	hub *websocket.Hub,
	logger *logrus.Logger,
	opts Options,
) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	r := gin.New()
	r.Use(requestLogger(logger), gin.Recovery())
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	s := &Server{
		engine:    r,
		accounts:  accounts,
		medicines: medicines,
		orders:    orders,
		tokens:    tokens,
		hub:       hub,
		logger:    logger,
		opts:      opts,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.engine.GET("/health", s.health)

	api := s.engine.Group("/api")
	authed := s.authenticate(false)
	admin := requireRoles(domain.RoleAdmin)

	users := api.Group("/users")
	{
		users.POST("/register", s.register)
		users.POST("/login", s.login)
		users.GET("/logout", s.logout)
		users.GET("/profile", authed, s.getProfile)
		users.PUT("/profile", authed, s.updateProfile)
		users.GET("/prescriptions", authed, s.listPrescriptions)
		users.POST("/prescriptions", authed, s.addPrescription)
	}

	adm := api.Group("/admin", authed, admin)
	{
		adm.GET("/prescriptions/pending", s.pendingPrescriptions)
		adm.PUT("/users/:userId/prescriptions/:prescriptionId", s.reviewPrescription)
	}

	medicines := api.Group("/medicines")
	{
		medicines.GET("", s.listMedicines)
		medicines.GET("/categories", s.listCategories)
		medicines.GET("/export", authed, admin, s.exportMedicines)
		medicines.GET("/:id", s.getMedicine)
		medicines.POST("", authed, admin, s.createMedicine)
		medicines.POST("/import", authed, admin, s.importMedicines)
		medicines.PUT("/:id", authed, admin, s.updateMedicine)
		medicines.PATCH("/:id", authed, requireRoles(domain.RoleAdmin, domain.RoleSupplier), s.updateStock)
		medicines.DELETE("/:id", authed, admin, s.deleteMedicine)
	}

	orders := api.Group("/orders", authed)
	{
		orders.POST("", s.createOrder)
		orders.GET("", s.listOrders)
		orders.GET("/supplier", requireRoles(domain.RoleSupplier), s.listOrders)
		orders.GET("/stats", s.orderStats)
		orders.GET("/:id", s.getOrder)
		orders.PUT("/:id", s.updateOrderStatus)
	}

	// browsers cannot set headers on a websocket handshake
	api.GET("/ws/orders", s.authenticate(true), requireRoles(domain.RoleAdmin, domain.RoleSupplier), s.orderFeed)
}

// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]any
// @Router /health [get]
func (s *Server) health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if s.hub != nil {
		body["dashboardClients"] = s.hub.ClientCount()
	}
	c.JSON(http.StatusOK, body)
}
