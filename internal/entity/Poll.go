package entity

type Nomination struct {
	UserID string `json:"userID"`
	Text   string `json:"text"`
}

type Poll struct {
	ID            string                `json:"id"`
	Topic         string                `json:"topic"`
	VotesPerVoter int                   `json:"votesPerVoter"`
	AdminID       string                `json:"adminID"`
	Participants  map[string]string     `json:"participants"`
	Nominations   map[string]Nomination `json:"nominations"`
	Rankings      map[string][]string   `json:"rankings"`
	Results       []RoundResult         `json:"results"`
	IsStarted     bool                  `json:"isStarted"`
}

// NewPoll returns the initial document of a freshly created poll.
func NewPoll(id, topic string, votesPerVoter int, adminID string) Poll {
	return Poll{
		ID:            id,
		Topic:         topic,
		VotesPerVoter: votesPerVoter,
		AdminID:       adminID,
		Participants:  map[string]string{},
		Nominations:   map[string]Nomination{},
		Rankings:      map[string][]string{},
		Results:       []RoundResult{},
		IsStarted:     false,
	}
}

func (p Poll) IsAdmin(userID string) bool {
	return userID != "" && userID == p.AdminID
}

func (p Poll) HasParticipant(userID string) bool {
	_, ok := p.Participants[userID]
	return ok
}

// Clone returns a deep copy so that callers can't mutate shared maps.
func (p Poll) Clone() Poll {
	out := p

	out.Participants = make(map[string]string, len(p.Participants))
	for id, name := range p.Participants {
		out.Participants[id] = name
	}

	out.Nominations = make(map[string]Nomination, len(p.Nominations))
	for id, n := range p.Nominations {
		out.Nominations[id] = n
	}

	out.Rankings = make(map[string][]string, len(p.Rankings))
	for id, r := range p.Rankings {
		out.Rankings[id] = append([]string(nil), r...)
	}

	out.Results = make([]RoundResult, len(p.Results))
	for i, r := range p.Results {
		out.Results[i] = r.Clone()
	}

	return out
}
