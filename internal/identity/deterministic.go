package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const optionScope = "widget-classes:option:"

// OptionUUID returns the row id of a widget option collection. A given option
// name always maps to the same id, so every backend agrees on it.
func OptionUUID(optionName string) uuid.UUID {
	return derive(optionScope, optionName)
}

// derive hashes scope+key with go-hashid. Blank keys yield uuid.Nil.
func derive(scope, key string) uuid.UUID {
	key = strings.TrimSpace(key)
	if key == "" {
		return uuid.Nil
	}
	name := scope + key
	id, err := hashid.NewUUID(name, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err == nil && id != uuid.Nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name))
}
