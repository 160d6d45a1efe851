package services

import (
	"github.com/dmitrijs2005/choirhub/internal/server/auth"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"github.com/dmitrijs2005/choirhub/internal/server/policy"
)

// IdentityFrom converts verified token claims to a policy identity. A nil
// identity is the anonymous caller. The voice part is not part of the token;
// use AccountService.ResolveIdentity where it matters.
func IdentityFrom(id *auth.Identity) policy.Identity {
	if id == nil {
		return policy.Identity{}
	}
	accountID := id.AccountID
	if canonical, err := models.ParseID(accountID); err == nil {
		accountID = canonical
	}
	return policy.Identity{AccountID: accountID, Username: id.Username, Role: id.Role}
}
