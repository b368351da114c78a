package entity

// RoundResult is the vote count of one elimination round.
type RoundResult struct {
	Votes      map[string]int `json:"votes"`
	Eliminated []string       `json:"eliminated,omitempty"`
	Winner     string         `json:"winner,omitempty"`
}

func (r RoundResult) Clone() RoundResult {
	out := RoundResult{
		Votes:  make(map[string]int, len(r.Votes)),
		Winner: r.Winner,
	}
	for id, n := range r.Votes {
		out.Votes[id] = n
	}
	if r.Eliminated != nil {
		out.Eliminated = append([]string(nil), r.Eliminated...)
	}
	return out
}
