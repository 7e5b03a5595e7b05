package config

import (
	"strconv"
	"strings"
)

// GroupPolicy is the set of chat IDs the bot is allowed to operate in.
// A nil policy allows every chat.
type GroupPolicy map[int64]struct{}

// Allows reports whether the policy permits the given chat.
func (p GroupPolicy) Allows(chatID int64) bool {
	if p == nil {
		return true
	}
	_, ok := p[chatID]
	return ok
}

// ParsePolicy parses a comma-separated list of chat IDs. An empty input or any
// unparseable entry yields a nil policy (allow all); the caller is expected to
// log the fallback.
func ParsePolicy(raw string) GroupPolicy {
	policy, _ := ParsePolicyStrict(raw)
	return policy
}

// ParsePolicyStrict is ParsePolicy with the parse error exposed, so callers
// can distinguish "no restriction configured" from "restriction misconfigured".
func ParsePolicyStrict(raw string) (GroupPolicy, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	policy := make(GroupPolicy)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		policy[id] = struct{}{}
	}
	if len(policy) == 0 {
		return nil, nil
	}
	return policy, nil
}
