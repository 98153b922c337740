package permit

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the form page
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.ShowForm)
	r.POST("/", h.SubmitForm)
}

// RegisterAPIRoutes registers the JSON API under an /api/v1 group
func (h *Handler) RegisterAPIRoutes(api *gin.RouterGroup) {
	permits := api.Group("/permits")
	{
		permits.POST("", h.Submit)
		permits.GET("", h.List)
		permits.GET("/:id", h.Get)
	}
}
