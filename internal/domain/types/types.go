// Package types contains common types used across the application
package types

// RankedName is one ranked name within a single (year, sex) index.
type RankedName struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TrendingEntry represents one row of the trending names list.
type TrendingEntry struct {
	Rank         int    `json:"rank"`
	Name         string `json:"name"`
	Sex          string `json:"sex"`
	CurrentRank  int    `json:"current_rank"`
	PreviousRank int    `json:"previous_rank"`
	Improvement  int    `json:"improvement"`
}

// YearRank is one point of a name's rank history.
type YearRank struct {
	Year int `json:"year"`
	Rank int `json:"rank"`
}

// NameHistory is the rank-by-year series for a single name and sex.
type NameHistory struct {
	Name  string     `json:"name"`
	Sex   string     `json:"sex"`
	Ranks []YearRank `json:"ranks"`
}
