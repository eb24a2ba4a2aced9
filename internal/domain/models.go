package domain

type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendRedis    Backend = "redis"
)

// NamedResult pairs a probe outcome with the backend it was taken against.
type NamedResult struct {
	Backend Backend     `json:"backend"`
	Result  ProbeResult `json:"result"`
}
