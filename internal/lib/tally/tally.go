// Package tally computes instant-runoff results from ranked ballots.
package tally

import (
	"sort"

	"github.com/14kear/online_voting/polls-service/internal/entity"
)

// Results runs instant-runoff elimination over rankings and returns one
// RoundResult per round. Ballots are cut to votesPerVoter entries and entries
// naming unknown nominations are skipped. Candidates tied for the lowest count
// are eliminated together. The function does not mutate its arguments.
func Results(
	rankings map[string][]string,
	nominations map[string]entity.Nomination,
	votesPerVoter int,
) []entity.RoundResult {
	results := []entity.RoundResult{}
	if len(nominations) == 0 {
		return results
	}

	active := make(map[string]bool, len(nominations))
	for id := range nominations {
		active[id] = true
	}

	ballots := normalize(rankings, nominations, votesPerVoter)

	for len(active) > 0 {
		votes := make(map[string]int, len(active))
		for id := range active {
			votes[id] = 0
		}

		cast := 0
		for _, ballot := range ballots {
			for _, id := range ballot {
				if active[id] {
					votes[id]++
					cast++
					break
				}
			}
		}

		round := entity.RoundResult{Votes: votes}

		if winner, ok := majority(votes, cast); ok {
			round.Winner = winner
			results = append(results, round)
			break
		}

		// No votes at all: every active candidate is tied at zero and there is
		// nothing left to redistribute.
		if cast == 0 {
			results = append(results, round)
			break
		}

		round.Eliminated = lowest(votes)
		results = append(results, round)

		for _, id := range round.Eliminated {
			delete(active, id)
		}
	}

	return results
}

// normalize returns ballots in a stable order, truncated to votesPerVoter
// entries, with unknown nomination ids removed.
func normalize(
	rankings map[string][]string,
	nominations map[string]entity.Nomination,
	votesPerVoter int,
) [][]string {
	voters := make([]string, 0, len(rankings))
	for userID := range rankings {
		voters = append(voters, userID)
	}
	sort.Strings(voters)

	ballots := make([][]string, 0, len(voters))
	for _, userID := range voters {
		ranking := rankings[userID]
		if votesPerVoter > 0 && len(ranking) > votesPerVoter {
			ranking = ranking[:votesPerVoter]
		}

		ballot := make([]string, 0, len(ranking))
		for _, id := range ranking {
			if _, ok := nominations[id]; ok {
				ballot = append(ballot, id)
			}
		}
		ballots = append(ballots, ballot)
	}

	return ballots
}

func majority(votes map[string]int, cast int) (string, bool) {
	for id, n := range votes {
		if n*2 > cast {
			return id, true
		}
	}
	return "", false
}

func lowest(votes map[string]int) []string {
	fewest := -1
	for _, n := range votes {
		if fewest == -1 || n < fewest {
			fewest = n
		}
	}

	out := []string{}
	for id, n := range votes {
		if n == fewest {
			out = append(out, id)
		}
	}
	sort.Strings(out)

	return out
}
