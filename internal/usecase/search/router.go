package search

// Router maps request hints to shard identifiers. Routing currently returns
// a single shard; ResolveMany exists so fan-out can be added without
// changing the orchestrator's call site.
type Router struct {
	defaultShard string
}

// NewRouter creates a shard router with a default shard.
func NewRouter(defaultShard string) *Router {
	return &Router{defaultShard: defaultShard}
}

// ResolveOne returns the requested shard verbatim, or the default when the
// request carries none.
func (r *Router) ResolveOne(requested string) string {
	if requested != "" {
		return requested
	}
	return r.defaultShard
}

// ResolveMany returns the shards a request maps to.
func (r *Router) ResolveMany(requested string) []string {
	return []string{r.ResolveOne(requested)}
}
