package domain

import "strings"

const (
	StatusPending   = "pending"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// DefaultStatuses is the status set used when none is configured
var DefaultStatuses = []string{StatusPending, StatusShipped, StatusDelivered, StatusCancelled}

// StatusSet is the configured, ordered set of valid order statuses.
// It always contains pending and cancelled since the order flows depend on them.
type StatusSet struct {
	values []string
	index  map[string]struct{}
}

func NewStatusSet(values []string) StatusSet {
	set := StatusSet{index: make(map[string]struct{})}
	for _, v := range append(append([]string{}, values...), StatusPending, StatusCancelled) {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := set.index[v]; ok {
			continue
		}
		set.index[v] = struct{}{}
		set.values = append(set.values, v)
	}
	return set
}

func (s StatusSet) Contains(status string) bool {
	_, ok := s.index[status]
	return ok
}

// Values returns the statuses in configured order
func (s StatusSet) Values() []string {
	return append([]string(nil), s.values...)
}
