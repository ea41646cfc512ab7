package cache

// ScopedKeyer prefixes every key produced by an inner Keyer. Deployments that
// share one Redis database (mainnet and testnet, say) set distinct namespaces
// so their banner entries never collide:
//
//	testnet := NewScopedKeyer(NewDefaultKeyer(), "base-sepolia:")
//	mainnet := NewScopedKeyer(NewDefaultKeyer(), "base:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LogoKey(name, symbol string, opts LogoKeyOpts) string {
	return k.prefix + k.inner.LogoKey(name, symbol, opts)
}

func (k *ScopedKeyer) BannerKey(tokenAddress string) string {
	return k.prefix + k.inner.BannerKey(tokenAddress)
}
