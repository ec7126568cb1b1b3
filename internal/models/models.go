package models

import "github.com/kartoza/credit-risk/internal/pipeline"

// PredictRequest carries one applicant for the JSON prediction endpoint
type PredictRequest struct {
	Age             int    `json:"age"`
	Sex             string `json:"sex"`
	Job             int    `json:"job"`
	Housing         string `json:"housing"`
	SavingAccounts  string `json:"saving_accounts"`
	CheckingAccount string `json:"checking_account"`
	CreditAmount    int    `json:"credit_amount"`
	Duration        int    `json:"duration"`
}

// Applicant converts the request into the pipeline's input record
func (r PredictRequest) Applicant() pipeline.Applicant {
	return pipeline.Applicant{
		Age:             r.Age,
		Sex:             r.Sex,
		Job:             r.Job,
		Housing:         r.Housing,
		SavingAccounts:  r.SavingAccounts,
		CheckingAccount: r.CheckingAccount,
		CreditAmount:    r.CreditAmount,
		Duration:        r.Duration,
	}
}

// PredictResponse contains the rendered verdict
type PredictResponse struct {
	InteractionID string `json:"interaction_id"`
	Label         int    `json:"label"`
	Verdict       string `json:"verdict"`
	Style         string `json:"style"`
	Message       string `json:"message"`
}
