package session

import "github.com/sipolgar/sipolgar/pkg/models"

// MergeProfileUpdate builds the new canonical profile after a profile
// update. The server response is the base when present, otherwise the
// current record. Patched personel fields are overlaid on the base's
// personel; when the server omitted personel entirely, the current personel
// is used instead so the sub-record never disappears.
//
// The function is pure: inputs are not modified and the result shares no
// memory with them. Applying the same patch twice yields the same record.
func MergeProfileUpdate(current *models.UserProfile, patch models.ProfileUpdate, server *models.UserProfile) *models.UserProfile {
	var merged *models.UserProfile
	switch {
	case server != nil:
		merged = server.Clone()
	case current != nil:
		merged = current.Clone()
	default:
		merged = &models.UserProfile{}
	}

	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Email != nil {
		merged.Email = *patch.Email
	}

	if merged.Personel == nil && current != nil && current.Personel != nil {
		merged.Personel = current.Personel.Clone()
	}

	if !patch.Personel.IsEmpty() {
		if merged.Personel == nil {
			merged.Personel = &models.Personel{}
		}
		patch.Personel.ApplyTo(merged.Personel)
	}

	return merged
}
