package routes

import (
	"agromarket/cart"
	"agromarket/delivery"
	"agromarket/globals"
	"agromarket/middleware"
	"agromarket/orders"
	"agromarket/pay"
	"agromarket/ratelim"
	"agromarket/ws"

	"github.com/julienschmidt/httprouter"
)

func AddCartRoutes(router *httprouter.Router, h *cart.Handlers) {
	router.GET("/api/cart", middleware.Authenticate(h.GetCart))
	router.POST("/api/cart/items", ratelim.RateLimit(middleware.Authenticate(h.AddToCart)))
	router.PUT("/api/cart/items/:productid", middleware.Authenticate(h.UpdateCartItem))
	router.DELETE("/api/cart/items/:productid", middleware.Authenticate(h.RemoveFromCart))
	router.DELETE("/api/cart", middleware.Authenticate(h.ClearCart))
}

func AddOrderRoutes(router *httprouter.Router, h *orders.Handlers) {
	router.POST("/api/orders", ratelim.RateLimit(middleware.Authenticate(pay.Idempotency(h.CreateOrder))))
	router.GET("/api/orders/my-orders", middleware.Authenticate(h.GetMyOrders))
	router.GET("/api/orders/producer-orders", middleware.Authenticate(middleware.RequireRoles(h.GetProducerOrders, globals.RoleProducer, globals.RoleAdmin)))
	router.GET("/api/orders/deliverer-orders", middleware.Authenticate(middleware.RequireRoles(h.GetDelivererOrders, globals.RoleDeliverer, globals.RoleAdmin)))
	router.GET("/api/orders/transactions", middleware.Authenticate(h.GetTransactionHistory))

	// Single-order operations live under /api/order to keep the param segment
	// free of static siblings (httprouter rejects the mix).
	router.GET("/api/order/:id", middleware.Authenticate(h.GetOrder))
	router.GET("/api/order/:id/receipt", middleware.Authenticate(h.PrintReceipt))
	router.PUT("/api/order/:id/status", middleware.Authenticate(middleware.RequireRoles(h.UpdateOrderStatus, globals.RoleProducer, globals.RoleDeliverer, globals.RoleAdmin)))
	router.PUT("/api/order/:id/cancel", middleware.Authenticate(h.CancelOrder))
}

func AddDeliveryRoutes(router *httprouter.Router, h *delivery.Handlers) {
	router.GET("/api/deliveries", middleware.Authenticate(middleware.RequireRoles(h.GetAllDeliveries, globals.RoleDeliverer, globals.RoleAdmin)))
	router.GET("/api/deliveries/available", middleware.Authenticate(middleware.RequireRoles(h.GetAvailableDeliveries, globals.RoleDeliverer, globals.RoleAdmin)))
	router.GET("/api/deliveries/my-deliveries", middleware.Authenticate(middleware.RequireRoles(h.GetMyDeliveries, globals.RoleDeliverer, globals.RoleAdmin)))
	router.POST("/api/deliveries/accept/:orderid", ratelim.RateLimit(middleware.Authenticate(middleware.RequireRoles(h.AcceptDelivery, globals.RoleDeliverer))))
	router.GET("/api/delivery/:id", middleware.Authenticate(h.GetDelivery))
	router.PUT("/api/delivery/:id/status", middleware.Authenticate(middleware.RequireRoles(h.UpdateDeliveryStatus, globals.RoleDeliverer)))
}

func AddWebsocketRoutes(router *httprouter.Router) {
	router.GET("/ws/orders/:orderid", ws.HandleOrderWS)
}
