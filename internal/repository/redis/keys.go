package redis

import "strings"

const ns = "courtgo:v1"

// ChannelSessionsChanged is shared by every process. Messages on it only
// announce that a session changed; each process still answers reads from its
// own registry.
func ChannelSessionsChanged() string {
	return ns + ":sessions:changed"
}

// keyspace prefixes keys owned by one registry instance.
type keyspace string

func newKeyspace(instance string) keyspace {
	return keyspace(ns + ":" + instance)
}

func (k keyspace) join(parts ...string) string {
	return string(k) + ":" + strings.Join(parts, ":")
}
