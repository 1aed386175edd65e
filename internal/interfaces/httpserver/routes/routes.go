package routes

import (
	"github.com/gin-gonic/gin"

	"clipstream/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates public route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches the public API. Paths are unversioned; they are the
// wire surface existing clients already consume.
func (r *Routes) Register(router gin.IRouter) {
	router.GET("/video/watch/:id", r.handlers.Stream.Watch)
	router.GET("/thumbnail/:id", r.handlers.Stream.Thumbnail)

	router.POST("/upload/video", r.handlers.Video.Upload)
	router.PUT("/video/like/:id", r.handlers.Video.Like)
	router.POST("/video/:id/comment", r.handlers.Video.Comment)
	router.GET("/video/list", r.handlers.Video.List)
	router.GET("/video/detail/:id", r.handlers.Video.Detail)

	router.DELETE("/items/:id", r.handlers.Video.Delete)
	router.GET("/items", r.handlers.Video.List)
}
