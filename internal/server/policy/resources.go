package policy

import "github.com/dmitrijs2005/choirhub/internal/server/models"

func ConcertResource(c *models.Concert) Resource {
	return Resource{Kind: KindConcert, OwnerID: c.CreatedBy, Public: c.IsPublic}
}

func RehearsalResource(r *models.Rehearsal) Resource {
	return Resource{Kind: KindRehearsal, OwnerID: r.CreatedBy}
}

func RecordingResource(r *models.Recording) Resource {
	return Resource{Kind: KindRecording, OwnerID: r.UploadedBy, Public: r.IsPublic}
}

func SheetMusicResource(s *models.SheetMusic) Resource {
	return Resource{Kind: KindSheetMusic, OwnerID: s.UploadedBy, Public: s.IsPublic, VoicePart: s.VoicePart}
}

func AccountResource(accountID string) Resource {
	return Resource{Kind: KindAccount, OwnerID: accountID}
}

func DirectoryResource() Resource {
	return Resource{Kind: KindMemberDirectory}
}

// New collection items carry no owner yet.
func NewResource(kind Kind) Resource {
	return Resource{Kind: kind}
}

// CollectionResource stands for listing a kind as a whole. Items are checked
// one by one with Filter afterwards.
func CollectionResource(kind Kind) Resource {
	return Resource{Kind: kind, Public: true}
}
