package dto

type FindMatchesRequest struct {
	Interest string `json:"interest"`
}

type CandidateMatchResponse struct {
	UserID         int64    `json:"userId"`
	Name           string   `json:"name"`
	SkillsTheyWant []string `json:"skillsTheyWant"`
	AvgRating      *float64 `json:"avgRating"`
	ReviewCount    int      `json:"reviewCount"`
}

type MatchesResponse struct {
	Success bool                     `json:"success"`
	Data    []CandidateMatchResponse `json:"data"`
}
