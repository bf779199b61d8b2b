package channel

// Stats is a point-in-time snapshot of a Bounded channel, taken under its lock.
type Stats struct {
	Capacity    int `json:"capacity"`
	Buffered    int `json:"buffered"`
	Peak        int `json:"peak_buffered"`
	Outstanding int `json:"outstanding"`

	Puts int `json:"puts"`
	Gets int `json:"gets"`
	Acks int `json:"acks"`

	SentinelsPut int `json:"sentinels_put"`
	SentinelsGot int `json:"sentinels_got"`

	// Produced and Consumed are the run counters maintained by the workers
	// through MarkProduced and MarkConsumed.
	Produced int `json:"items_produced"`
	Consumed int `json:"items_consumed"`

	Aborted bool `json:"aborted"`
}
