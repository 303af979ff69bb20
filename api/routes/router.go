package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumine-jewelry/lumine-backend/api/controllers"
	"github.com/lumine-jewelry/lumine-backend/api/middleware"
	"github.com/lumine-jewelry/lumine-backend/internal/admin"
	authsvc "github.com/lumine-jewelry/lumine-backend/internal/auth"
	"github.com/lumine-jewelry/lumine-backend/internal/cart"
	"github.com/lumine-jewelry/lumine-backend/internal/designs"
	"github.com/lumine-jewelry/lumine-backend/internal/jewelers"
	"github.com/lumine-jewelry/lumine-backend/internal/orders"
	"github.com/lumine-jewelry/lumine-backend/internal/paymentmethods"
	"github.com/lumine-jewelry/lumine-backend/internal/products"
	"github.com/lumine-jewelry/lumine-backend/pkg/config"
	"github.com/lumine-jewelry/lumine-backend/pkg/db"
	"github.com/lumine-jewelry/lumine-backend/pkg/logger"
	"github.com/lumine-jewelry/lumine-backend/pkg/metrics"
	"github.com/lumine-jewelry/lumine-backend/pkg/redis"
	"github.com/lumine-jewelry/lumine-backend/pkg/uploads"
)

// Services bundles everything the router hands to controllers.
type Services struct {
	Auth           authsvc.Service
	Products       products.Service
	Jewelers       jewelers.Service
	Cart           cart.Service
	PaymentMethods paymentmethods.Service
	Orders         orders.Service
	Designs        designs.Service
	Stats          *admin.StatsService
	Users          *admin.UserDirectory
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	receiptStore := uploads.DirStore{Dir: cfg.Uploads.ReceiptDir}
	productImageStore := uploads.DirStore{Dir: cfg.Uploads.ProductDir}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Get("/health", controllers.Health(dbClient, redisClient, logg))
	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	// Generated designs and receipt images are served off local disk.
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.Register(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.Login(svcs.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/me", controllers.Me(svcs.Auth, logg))
			r.Patch("/me", controllers.UpdateProfile(svcs.Auth, logg))
		})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(svcs.Products, logg))
		r.Get("/{productID}", controllers.GetProduct(svcs.Products, logg))
	})
	r.Get("/api/categories", controllers.ListCategories(svcs.Products, logg))
	r.Route("/api/jewelers", func(r chi.Router) {
		r.Get("/", controllers.ListJewelers(svcs.Jewelers, logg))
		r.Get("/{jewelerID}", controllers.GetJeweler(svcs.Jewelers, logg))
	})
	r.Get("/api/payment-methods", controllers.ListPaymentMethods(svcs.PaymentMethods, logg))

	// The design studio works for anonymous visitors too.
	r.With(middleware.OptionalAuth(cfg.JWT, logg)).Post("/api/ai/generate", controllers.GenerateDesign(svcs.Designs, logg))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(svcs.Cart, logg))
			r.Post("/items", controllers.AddCartItem(svcs.Cart, logg))
			r.Put("/items/{productID}", controllers.UpdateCartItem(svcs.Cart, logg))
			r.Delete("/items/{productID}", controllers.RemoveCartItem(svcs.Cart, logg))
			r.Delete("/", controllers.ClearCart(svcs.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.PlaceOrder(svcs.Orders, logg))
			r.Get("/", controllers.ListMyOrders(svcs.Orders, logg))
			r.Get("/{orderID}", controllers.GetMyOrder(svcs.Orders, logg))
			r.Put("/{orderID}/receipt", controllers.AttachReceipt(svcs.Orders, logg))
			r.Post("/{orderID}/receipt", controllers.UploadReceipt(svcs.Orders, receiptStore, cfg.Uploads.MaxMB, logg))
		})

		r.Route("/ai", func(r chi.Router) {
			r.Get("/designs", controllers.ListMyDesigns(svcs.Designs, logg))
			r.Get("/designs/{designID}", controllers.GetDesign(svcs.Designs, logg))
			r.Post("/design-requests", controllers.CreateDesignRequest(svcs.Designs, logg))
			r.Get("/design-requests", controllers.ListMyDesignRequests(svcs.Designs, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Get("/dashboard", controllers.Dashboard(svcs.Stats, logg))
		r.Get("/users", controllers.ListUsers(svcs.Users, logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(svcs.Products, logg))
			r.Put("/{productID}", controllers.UpdateProduct(svcs.Products, logg))
			r.Delete("/{productID}", controllers.DeleteProduct(svcs.Products, logg))
			r.Post("/{productID}/images", controllers.AddProductImage(svcs.Products, logg))
			r.Post("/{productID}/images/upload", controllers.UploadProductImage(svcs.Products, productImageStore, cfg.Uploads.MaxMB, logg))
			r.Delete("/{productID}/images/{imageID}", controllers.RemoveProductImage(svcs.Products, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.CreateCategory(svcs.Products, logg))
			r.Delete("/{categoryID}", controllers.DeleteCategory(svcs.Products, logg))
		})

		r.Route("/jewelers", func(r chi.Router) {
			r.Post("/", controllers.CreateJeweler(svcs.Jewelers, logg))
			r.Put("/{jewelerID}", controllers.UpdateJeweler(svcs.Jewelers, logg))
			r.Delete("/{jewelerID}", controllers.DeleteJeweler(svcs.Jewelers, logg))
		})

		r.Route("/payment-methods", func(r chi.Router) {
			r.Get("/", controllers.ListAllPaymentMethods(svcs.PaymentMethods, logg))
			r.Post("/", controllers.CreatePaymentMethod(svcs.PaymentMethods, logg))
			r.Put("/{methodID}", controllers.UpdatePaymentMethod(svcs.PaymentMethods, logg))
			r.Delete("/{methodID}", controllers.DeletePaymentMethod(svcs.PaymentMethods, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListAllOrders(svcs.Orders, logg))
			r.Get("/{orderID}", controllers.GetOrder(svcs.Orders, logg))
			r.Put("/{orderID}/status", controllers.UpdateOrderStatus(svcs.Orders, logg))
		})

		r.Route("/design-requests", func(r chi.Router) {
			r.Get("/", controllers.ListAllDesignRequests(svcs.Designs, logg))
			r.Put("/{requestID}/review", controllers.ReviewDesignRequest(svcs.Designs, logg))
		})
	})

	return r
}
