package services

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/kkadvisory/member-portal-service/internal/models"
)

// buildInviteMetadata assembles the metadata bag attached to the new
// identity. Invitation data is stored twice: under invite_* namespaced keys
// and under the plain keys. The namespaced copy is the durable source of
// truth because a later OAuth sign-in merge may overwrite the plain keys.
func (s *provisioningService) buildInviteMetadata(req *InviteRequest, effectiveIsAdmin bool) map[string]any {
	metadata := map[string]any{
		models.MetaFullName:  req.FullName,
		models.MetaRole:      req.Role,
		models.MetaExpertise: req.Expertise,

		models.MetaInviteFullName:  req.FullName,
		models.MetaInviteRole:      req.Role,
		models.MetaInviteExpertise: req.Expertise,
		models.MetaInviteIsAdmin:   effectiveIsAdmin,
		models.MetaInvitedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	return metadata
}

// provisionalProfile is the eager row written right after issuance.
func (s *provisioningService) provisionalProfile(id, email string, req *InviteRequest, effectiveIsAdmin bool) *models.Profile {
	return &models.Profile{
		ID:        id,
		Email:     email,
		FullName:  req.FullName,
		Role:      s.effectiveRole(req.Role, effectiveIsAdmin),
		IsAdmin:   effectiveIsAdmin,
		Expertise: datatypes.NewJSONSlice(req.Expertise),
	}
}

// resolveProfile reconciles invitation-time metadata with sign-in metadata.
// Each field resolves independently: namespaced invite_* source first, then
// the plain metadata key, then a computed default.
func (s *provisioningService) resolveProfile(req *MaterializeRequest) *models.Profile {
	meta := req.UserMetadata
	email := strings.ToLower(strings.TrimSpace(req.Email))
	invited := hasInviteData(meta)

	fullName := ""
	if invited {
		fullName = metaString(meta, models.MetaInviteFullName)
	}
	if fullName == "" {
		fullName = metaString(meta, models.MetaFullName)
	}
	if fullName == "" {
		fullName = metaString(meta, models.MetaName)
	}
	if fullName == "" {
		fullName = localPart(email)
	}
	if fullName == "" {
		fullName = models.DefaultRoleLabel
	}

	role := ""
	if invited {
		role = metaString(meta, models.MetaInviteRole)
	}
	if role == "" {
		role = metaString(meta, models.MetaRole)
	}
	if role == "" {
		role = models.DefaultRoleLabel
	}

	isAdmin := s.allowListContains(email) || metaBool(meta, models.MetaInviteIsAdmin)
	if isAdmin {
		role = models.AdminRoleLabel
	}

	var expertise []string
	if invited {
		expertise = metaStringSlice(meta, models.MetaInviteExpertise)
	}

	var bio *string
	if invited {
		if value := metaString(meta, models.MetaInviteBio); value != "" {
			bio = &value
		}
	}
	if bio == nil {
		bio = req.Bio
	}

	return &models.Profile{
		ID:        req.UserID,
		Email:     email,
		FullName:  fullName,
		Role:      role,
		IsAdmin:   isAdmin,
		Expertise: datatypes.NewJSONSlice(expertise),
		AvatarURL: req.AvatarURL,
		Bio:       bio,
	}
}

// hasInviteData reports whether the metadata bag carries invitation markers.
func hasInviteData(meta map[string]any) bool {
	if meta == nil {
		return false
	}
	_, hasName := meta[models.MetaInviteFullName]
	_, hasRole := meta[models.MetaInviteRole]
	_, hasMarker := meta[models.MetaInvitedAt]
	return hasName || hasRole || hasMarker
}

func metaString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	if value, ok := meta[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func metaBool(meta map[string]any, key string) bool {
	if meta == nil {
		return false
	}
	switch value := meta[key].(type) {
	case bool:
		return value
	case string:
		return strings.EqualFold(strings.TrimSpace(value), "true")
	default:
		return false
	}
}

// metaStringSlice tolerates both []string and the []any shape produced by
// JSON decoding.
func metaStringSlice(meta map[string]any, key string) []string {
	if meta == nil {
		return nil
	}
	switch value := meta[key].(type) {
	case []string:
		return value
	case []any:
		out := make([]string, 0, len(value))
		for _, item := range value {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

func localPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return ""
}
