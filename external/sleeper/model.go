package sleeper

// statsRow is one entry of the stats endpoint.
type statsRow struct {
	PlayerID string      `json:"player_id"`
	Stats    statLine    `json:"stats"`
	Player   *playerInfo `json:"player"`
}

// statLine holds the fields we read from a player's stat line. Precomputed
// totals win over the component stats when present.
type statLine struct {
	PtsStd     *float64 `json:"pts_std"`
	PtsHalfPPR *float64 `json:"pts_half_ppr"`
	PtsPPR     *float64 `json:"pts_ppr"`
	GP         *float64 `json:"gp"`

	PassYd  float64 `json:"pass_yd"`
	PassTD  float64 `json:"pass_td"`
	PassInt float64 `json:"pass_int"`
	RushYd  float64 `json:"rush_yd"`
	RushTD  float64 `json:"rush_td"`
	Rec     float64 `json:"rec"`
	RecYd   float64 `json:"rec_yd"`
	RecTD   float64 `json:"rec_td"`
	FumLost float64 `json:"fum_lost"`
}

type playerInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Team      string `json:"team"`
	Position  string `json:"position"`
}
