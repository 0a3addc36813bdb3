package casdoor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kkadvisory/member-portal-service/internal/models"
	"github.com/kkadvisory/member-portal-service/internal/repositories"
)

// CasdoorConfig holds the configuration for Casdoor connection
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

type IdentityCasdoor struct {
	client *casdoorsdk.Client
	redis  *redis.Client
	config CasdoorConfig

	// Cache settings
	cachePrefix string
	cacheTTL    time.Duration
}

func NewIdentityCasdoor(config CasdoorConfig, redisClient *redis.Client) repositories.IdentityRepository {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	return &IdentityCasdoor{
		client:      client,
		redis:       redisClient,
		config:      config,
		cachePrefix: "identity:",
		cacheTTL:    15 * time.Minute,
	}
}

// ===== CACHE METHODS =====

func (i *IdentityCasdoor) getCacheKey(key string) string {
	return fmt.Sprintf("%s%s", i.cachePrefix, key)
}

func (i *IdentityCasdoor) getIdentityFromCache(ctx context.Context, key string) (*models.Identity, error) {
	if i.redis == nil {
		return nil, nil // Cache not available
	}

	data, err := i.redis.Get(ctx, i.getCacheKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Not found in cache
		}
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}

	var identity models.Identity
	if err := json.Unmarshal([]byte(data), &identity); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached identity: %w", err)
	}

	return &identity, nil
}

func (i *IdentityCasdoor) setIdentityCache(ctx context.Context, key string, identity *models.Identity) error {
	if i.redis == nil {
		return nil
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to marshal identity for cache: %w", err)
	}

	return i.redis.Set(ctx, i.getCacheKey(key), data, i.cacheTTL).Err()
}

func (i *IdentityCasdoor) invalidateCache(ctx context.Context, email string) {
	if i.redis == nil {
		return
	}
	i.redis.Del(ctx, i.getCacheKey(fmt.Sprintf("email:%s", email)))
	i.redis.Del(ctx, i.getCacheKey(fmt.Sprintf("exists:email:%s", email)))
}

// ===== CONVERSION METHODS =====

// convertCasdoorUserToIdentity converts a Casdoor user to the internal model.
// Casdoor properties are flat strings, so JSON-shaped values (arrays, bools)
// are decoded back into the metadata bag.
func (i *IdentityCasdoor) convertCasdoorUserToIdentity(casdoorUser *casdoorsdk.User) *models.Identity {
	if casdoorUser == nil {
		return nil
	}

	metadata := make(map[string]any, len(casdoorUser.Properties)+2)
	for key, value := range casdoorUser.Properties {
		metadata[key] = decodeProperty(value)
	}
	if casdoorUser.DisplayName != "" {
		metadata[models.MetaName] = casdoorUser.DisplayName
	}

	return &models.Identity{
		ID:       casdoorUser.Id,
		Email:    casdoorUser.Email,
		Metadata: metadata,
	}
}

// decodeProperty parses a stored property value, returning the raw string
// when it is not JSON.
func decodeProperty(value string) any {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return value
	}
	switch trimmed[0] {
	case '[', '{', 't', 'f':
		var decoded any
		if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
			return decoded
		}
	}
	return value
}

// encodeMetadata flattens the metadata bag into Casdoor string properties.
func encodeMetadata(metadata map[string]any) map[string]string {
	properties := make(map[string]string, len(metadata))
	for key, value := range metadata {
		switch v := value.(type) {
		case string:
			properties[key] = v
		default:
			data, err := json.Marshal(v)
			if err != nil {
				continue
			}
			properties[key] = string(data)
		}
	}
	return properties
}

// ===== READ OPERATIONS =====

func (i *IdentityCasdoor) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	cacheKey := fmt.Sprintf("email:%s", email)
	if cached, err := i.getIdentityFromCache(ctx, cacheKey); err == nil && cached != nil {
		return cached, nil
	}

	casdoorUser, err := i.client.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to get identity from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		return nil, fmt.Errorf("get identity by email: %w", repositories.ErrNotFound)
	}

	identity := i.convertCasdoorUserToIdentity(casdoorUser)
	i.setIdentityCache(ctx, cacheKey, identity)

	return identity, nil
}

func (i *IdentityCasdoor) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	cacheKey := i.getCacheKey(fmt.Sprintf("exists:email:%s", email))
	if i.redis != nil {
		exists, err := i.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			return exists == "true", nil
		}
	}

	casdoorUser, err := i.client.GetUserByEmail(email)
	if err != nil {
		return false, fmt.Errorf("failed to check identity existence: %w", err)
	}

	exists := casdoorUser != nil

	if i.redis != nil {
		i.redis.Set(ctx, cacheKey, fmt.Sprintf("%t", exists), 1*time.Minute)
	}

	return exists, nil
}

// ===== INVITATION =====

// InviteByEmail creates the identity at Casdoor with the metadata bag
// attached. The id is assigned here so the caller can key the eager profile
// write on it; Casdoor emails the credential link out of band.
func (i *IdentityCasdoor) InviteByEmail(ctx context.Context, email string, metadata map[string]any) (*models.Identity, error) {
	id := uuid.NewString()
	displayName, _ := metadata[models.MetaFullName].(string)

	casdoorUser := &casdoorsdk.User{
		Owner:             i.config.OrganizationName,
		Name:              localPart(email),
		Id:                id,
		Email:             email,
		DisplayName:       displayName,
		Properties:        encodeMetadata(metadata),
		SignupApplication: i.config.ApplicationName,
	}

	ok, err := i.client.AddUser(casdoorUser)
	if err != nil {
		return nil, fmt.Errorf("failed to invite identity via Casdoor: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("casdoor rejected identity creation for %s", email)
	}

	i.invalidateCache(ctx, email)

	return &models.Identity{
		ID:       id,
		Email:    email,
		Metadata: metadata,
	}, nil
}

func localPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
