package state

import "time"

// #region kv
// KV is the durable key/value surface the session, inspiration and theme
// stores persist through. Values are JSON or plain strings; the last write
// for a key wins.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}
// #endregion kv

// #region record
// Record is a single stored key with its last write time.
type Record struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
// #endregion record

// #region keys
// Well-known storage keys.
const (
	KeySession          = "persona_session_state"
	KeyInspiration      = "persona_inspiration_data"
	KeyInspirationFetch = "persona_inspiration_last_fetch"
	KeyTheme            = "theme"
)
// #endregion keys
