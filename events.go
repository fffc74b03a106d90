package realip

const (
	securityEventChainTooLong      = "chain_too_long"
	securityEventPrivateOnlySource = "private_only_source"
)
