// Package httpapi is the JSON HTTP interface of the choirhub server, built on gin.
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/choirhub/internal/logging"
	"github.com/dmitrijs2005/choirhub/internal/server/auth"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"github.com/dmitrijs2005/choirhub/internal/server/policy"
	"github.com/dmitrijs2005/choirhub/internal/server/services"
	"github.com/gin-gonic/gin"
)

type AccountService interface {
	TokenVerifier
	Register(ctx context.Context, reg models.Registration) (*models.PublicAccount, error)
	Login(ctx context.Context, username, password string) (*services.Session, error)
	ResolveIdentity(ctx context.Context, id *auth.Identity) policy.Identity
	Profile(ctx context.Context, caller policy.Identity, accountID string) (*models.PublicAccount, error)
	UpdateProfile(ctx context.Context, caller policy.Identity, accountID string, upd models.ProfileUpdate) (*models.PublicAccount, error)
	ChangePassword(ctx context.Context, caller policy.Identity, current, next string) error
	ChangeRole(ctx context.Context, caller policy.Identity, accountID, role string) (*models.PublicAccount, error)
	Delete(ctx context.Context, caller policy.Identity, accountID string) error
	Approve(ctx context.Context, caller policy.Identity, accountID string) (*models.PublicAccount, error)
	Reject(ctx context.Context, caller policy.Identity, accountID string) error
	ListPending(ctx context.Context, caller policy.Identity) ([]*models.PublicAccount, error)
	ListAccounts(ctx context.Context, caller policy.Identity) ([]*models.PublicAccount, error)
	Directory(ctx context.Context, caller policy.Identity) ([]*models.DirectoryEntry, error)
}

type ConcertService interface {
	List(ctx context.Context, caller policy.Identity) ([]*models.Concert, error)
	Get(ctx context.Context, caller policy.Identity, id string) (*models.Concert, error)
	Create(ctx context.Context, caller policy.Identity, in models.ConcertInput) (*models.Concert, error)
	Update(ctx context.Context, caller policy.Identity, id string, in models.ConcertInput) (*models.Concert, error)
	Delete(ctx context.Context, caller policy.Identity, id string) error
}

type RehearsalService interface {
	List(ctx context.Context, caller policy.Identity) ([]*models.Rehearsal, error)
	Get(ctx context.Context, caller policy.Identity, id string) (*models.Rehearsal, error)
	Create(ctx context.Context, caller policy.Identity, in models.RehearsalInput) (*models.Rehearsal, error)
	Update(ctx context.Context, caller policy.Identity, id string, in models.RehearsalInput) (*models.Rehearsal, error)
	Delete(ctx context.Context, caller policy.Identity, id string) error
}

type RecordingService interface {
	List(ctx context.Context, caller policy.Identity) ([]*models.Recording, error)
	Get(ctx context.Context, caller policy.Identity, id string) (*models.Recording, error)
	Create(ctx context.Context, caller policy.Identity, in models.RecordingInput) (*models.RecordingUpload, error)
	Complete(ctx context.Context, caller policy.Identity, id string) (*models.Recording, error)
	Download(ctx context.Context, caller policy.Identity, id string) (*models.PresignedURL, error)
	Update(ctx context.Context, caller policy.Identity, id string, in models.RecordingInput) (*models.Recording, error)
	Delete(ctx context.Context, caller policy.Identity, id string) error
}

type SheetMusicService interface {
	List(ctx context.Context, caller policy.Identity) ([]*models.SheetMusic, error)
	Get(ctx context.Context, caller policy.Identity, id string) (*models.SheetMusic, error)
	Create(ctx context.Context, caller policy.Identity, in models.SheetMusicInput) (*models.SheetMusicUpload, error)
	Complete(ctx context.Context, caller policy.Identity, id string) (*models.SheetMusic, error)
	Download(ctx context.Context, caller policy.Identity, id string) (*models.PresignedURL, error)
	Update(ctx context.Context, caller policy.Identity, id string, in models.SheetMusicInput) (*models.SheetMusic, error)
	Delete(ctx context.Context, caller policy.Identity, id string) error
}

// Handler holds the services behind the routes.
type Handler struct {
	accounts   AccountService
	concerts   ConcertService
	rehearsals RehearsalService
	recordings RecordingService
	sheetMusic SheetMusicService
	log        logging.Logger
}

func NewHandler(a AccountService, c ConcertService, r RehearsalService, rec RecordingService, sm SheetMusicService, log logging.Logger) *Handler {
	return &Handler{
		accounts:   a,
		concerts:   c,
		rehearsals: r,
		recordings: rec,
		sheetMusic: sm,
		log:        log.With("module", "http"),
	}
}

// caller is the policy identity of the request, taken from the token alone.
func caller(c *gin.Context) policy.Identity {
	return services.IdentityFrom(authIdentity(c))
}

// resolvedCaller also loads the stored voice part.
func (h *Handler) resolvedCaller(c *gin.Context) policy.Identity {
	return h.accounts.ResolveIdentity(c.Request.Context(), authIdentity(c))
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// bind decodes the JSON body into dst, answering 400 on failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}
