package auth

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/downvot/downvot/internal/config"
	"github.com/downvot/downvot/internal/dlservice"
	"github.com/downvot/downvot/internal/session"
)

// MembershipChecker answers delegated channel-membership checks. The
// Telegram transport implements it; tests inject fakes.
type MembershipChecker interface {
	IsMember(channel string, userID int64) (bool, error)
}

// KeyService is the slice of the download-service client the gate needs.
type KeyService interface {
	GetKey(adminKey, name string) (string, error)
	CreateKey(adminKey, name string, permissions []string) (string, error)
}

// Denial is a human-readable authorization refusal.
type Denial struct {
	Key  string
	Args []interface{}
}

// Gate decides, per interaction, whether the requester may proceed, and
// lazily provisions the per-user service credential.
type Gate struct {
	registry     *config.Registry
	keys         KeyService
	members      MembershipChecker
	adminKey     string
	gatedChannel string
	autoCreate   bool
}

func NewGate(registry *config.Registry, keys KeyService, members MembershipChecker) *Gate {
	return &Gate{
		registry:     registry,
		keys:         keys,
		members:      members,
		adminKey:     config.AdminKey,
		gatedChannel: config.GatedChannel,
		autoCreate:   config.AutoCreateKey,
	}
}

// KeyName is the service-side name for a user's issued key.
func KeyName(username string) string {
	return username + "_downvot"
}

// Authorize checks the allow-list, falls back to a gated-channel membership
// check when one is configured, and resolves the chat's API key. It fills
// the chat-scoped defaults on first contact. A nil return means proceed.
func (g *Gate) Authorize(username string, userID int64, chat *session.ChatState) *Denial {
	allowed := g.registry.IsAllowed(username)

	if !allowed && g.gatedChannel != "" {
		member, err := g.members.IsMember(g.gatedChannel, userID)
		if err != nil {
			log.WithError(err).WithField("user", username).Warn("membership check failed")
			return &Denial{Key: "membership_failed"}
		}
		// Membership grants access for this call only, it is not persisted.
		allowed = member
	}

	if !allowed {
		if g.gatedChannel != "" {
			return &Denial{Key: "join_channel", Args: []interface{}{g.gatedChannel}}
		}
		return &Denial{Key: "not_authorized"}
	}

	chat.Username = username
	chat.Premium = g.registry.IsPremium(username)

	if chat.APIKey == "" {
		key, err := g.resolveKey(username)
		if err != nil {
			return &Denial{Key: "key_failed", Args: []interface{}{err.Error()}}
		}
		chat.APIKey = key
	}
	return nil
}

func (g *Gate) resolveKey(username string) (string, error) {
	// A key recorded locally wins; the service lookup is the fallback.
	if rec, ok := g.registry.Lookup(username); ok && rec.Key != "" {
		return rec.Key, nil
	}

	key, err := g.keys.GetKey(g.adminKey, KeyName(username))
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, dlservice.ErrKeyNotFound) || !g.autoCreate {
		return "", err
	}

	log.WithField("user", username).Info("provisioning new api key")
	key, err = g.keys.CreateKey(g.adminKey, KeyName(username), config.ProvisionedPermissions)
	if err != nil {
		return "", err
	}

	if rec, ok := g.registry.Lookup(username); ok {
		rec.Key = key
		if perr := g.registry.Put(username, rec); perr != nil {
			log.WithError(perr).Warn("failed to persist provisioned key")
		}
	}
	return key, nil
}
