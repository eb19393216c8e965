package generator

// NewResolverWithStrategy lets external tests drive Execute with their own
// conflict strategy.
func NewResolverWithStrategy(strategy ConflictStrategy) *Resolver {
	return &Resolver{strategy: strategy}
}
