package config

import (
	"os"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// UserRecord is one allow-listed user in the registry file.
type UserRecord struct {
	Key     string `mapstructure:"key" json:"key"`
	Premium bool   `mapstructure:"premium" json:"premium"`
}

// Registry is the mutable allow-list, persisted through viper so admin-panel
// edits survive restarts.
type Registry struct {
	mu    sync.RWMutex
	v     *viper.Viper
	users map[string]UserRecord
}

func LoadRegistry(path string) (*Registry, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
			log.Warnf("users file %s not found, starting with an empty allow-list", path)
			v.Set("users", map[string]UserRecord{})
			if werr := v.WriteConfigAs(path); werr != nil {
				return nil, werr
			}
		} else {
			return nil, err
		}
	}

	r := &Registry{v: v, users: map[string]UserRecord{}}
	if err := v.UnmarshalKey("users", &r.users); err != nil {
		return nil, err
	}
	log.Infof("loaded %d users from %s", len(r.users), path)
	return r, nil
}

func (r *Registry) Lookup(username string) (UserRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.users[username]
	return rec, ok
}

func (r *Registry) IsAllowed(username string) bool {
	_, ok := r.Lookup(username)
	return ok
}

func (r *Registry) IsPremium(username string) bool {
	rec, ok := r.Lookup(username)
	return ok && rec.Premium
}

func (r *Registry) Put(username string, rec UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[username] = rec
	return r.persist()
}

func (r *Registry) Delete(username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, username)
	return r.persist()
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

func (r *Registry) persist() error {
	r.v.Set("users", r.users)
	return r.v.WriteConfig()
}
