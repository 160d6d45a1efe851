package httpapi

import (
	"github.com/dmitrijs2005/choirhub/internal/logging"
	"github.com/gin-gonic/gin"
)

type RouterOptions struct {
	RateLimiter *RateLimiter
	CORSOrigins []string
}

// NewRouter wires middleware and routes. Every route under /api sees the
// caller's identity when a valid bearer token is sent.
func NewRouter(h *Handler, log logging.Logger, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(log))
	r.Use(RequestLogger(log))
	r.Use(CORS(opts.CORSOrigins))

	api := r.Group("/api")
	api.GET("/health", h.Health)

	api.Use(opts.RateLimiter.Handler())
	api.Use(Authenticate(h.accounts))
	api.Use(CanonicalID())

	required := RequireAuth()

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", required, h.Me)
	}

	members := api.Group("/members", required)
	{
		members.GET("", h.ListMembers)
		members.GET("/pending", h.ListPending)
		members.GET("/profile", h.GetProfile)
		members.PUT("/profile", h.UpdateProfile)
		members.PUT("/profile/password", h.ChangePassword)
		members.GET("/:id", h.GetMember)
		members.PUT("/:id/approve", h.Approve)
		members.DELETE("/:id/reject", h.Reject)
		members.PUT("/:id/role", h.ChangeRole)
		members.DELETE("/:id", h.DeleteMember)
	}

	concerts := api.Group("/concerts")
	{
		concerts.GET("", h.ListConcerts)
		concerts.GET("/:id", h.GetConcert)
		concerts.POST("", required, h.CreateConcert)
		concerts.PUT("/:id", required, h.UpdateConcert)
		concerts.DELETE("/:id", required, h.DeleteConcert)
	}

	rehearsals := api.Group("/rehearsals", required)
	{
		rehearsals.GET("", h.ListRehearsals)
		rehearsals.GET("/:id", h.GetRehearsal)
		rehearsals.POST("", h.CreateRehearsal)
		rehearsals.PUT("/:id", h.UpdateRehearsal)
		rehearsals.DELETE("/:id", h.DeleteRehearsal)
	}

	recordings := api.Group("/recordings", required)
	{
		recordings.GET("", h.ListRecordings)
		recordings.GET("/:id", h.GetRecording)
		recordings.POST("", h.CreateRecording)
		recordings.PUT("/:id", h.UpdateRecording)
		recordings.DELETE("/:id", h.DeleteRecording)
		recordings.POST("/:id/complete", h.CompleteRecording)
		recordings.GET("/:id/download", h.DownloadRecording)
	}

	sheets := api.Group("/sheet-music", required)
	{
		sheets.GET("", h.ListSheetMusic)
		sheets.GET("/:id", h.GetSheetMusic)
		sheets.POST("", h.CreateSheetMusic)
		sheets.PUT("/:id", h.UpdateSheetMusic)
		sheets.DELETE("/:id", h.DeleteSheetMusic)
		sheets.POST("/:id/complete", h.CompleteSheetMusic)
		sheets.GET("/:id/download", h.DownloadSheetMusic)
	}

	return r
}
