package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/choirhub/internal/client/client"
	"github.com/dmitrijs2005/choirhub/internal/common"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
)

// MemberService covers the member directory and the administrator's
// approval workflow.
type MemberService interface {
	List(ctx context.Context) ([]models.PublicAccount, error)
	Pending(ctx context.Context) ([]models.PublicAccount, error)
	Approve(ctx context.Context, id string) (*models.PublicAccount, error)
	Reject(ctx context.Context, id string) error
	ChangeRole(ctx context.Context, id, role string) (*models.PublicAccount, error)
	Delete(ctx context.Context, id string) error
}

type memberService struct {
	client client.Client
}

func NewMemberService(c client.Client) MemberService {
	return &memberService{client: c}
}

func (s *memberService) List(ctx context.Context) ([]models.PublicAccount, error) {
	return s.client.ListMembers(ctx)
}

func (s *memberService) Pending(ctx context.Context) ([]models.PublicAccount, error) {
	return s.client.ListPending(ctx)
}

func (s *memberService) Approve(ctx context.Context, id string) (*models.PublicAccount, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	return s.client.Approve(ctx, id)
}

func (s *memberService) Reject(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return s.client.Reject(ctx, id)
}

// ChangeRole checks the role name locally so a typo never reaches the server.
func (s *memberService) ChangeRole(ctx context.Context, id, role string) (*models.PublicAccount, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	r, ok := models.ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("%w: role must be %q or %q", common.ErrValidation, models.RoleMember, models.RoleAdmin)
	}
	return s.client.ChangeRole(ctx, id, r)
}

func (s *memberService) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return s.client.DeleteMember(ctx, id)
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: member id is required", common.ErrValidation)
	}
	return nil
}
