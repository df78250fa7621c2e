package stackmon

// HostPort is one published host-side binding of a compose service.
type HostPort struct {
	Host string
	Port int
}

// Target is a compose service in the monitor's working set. Targets are
// resolved once per process and immutable afterwards; the container backing
// a target is re-resolved every cycle.
type Target struct {
	Service string
	Ports   []HostPort
}
