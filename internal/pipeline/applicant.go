package pipeline

// Field names as the encoders and the classifier know them
const (
	FieldAge             = "Age"
	FieldSex             = "Sex"
	FieldJob             = "Job"
	FieldHousing         = "Housing"
	FieldSavingAccounts  = "Saving accounts"
	FieldCheckingAccount = "Checking account"
	FieldCreditAmount    = "Credit amount"
	FieldDuration        = "Duration"
)

// FeatureColumns is the column order the classifier was trained on
var FeatureColumns = []string{
	FieldAge,
	FieldSex,
	FieldJob,
	FieldHousing,
	FieldSavingAccounts,
	FieldCheckingAccount,
	FieldCreditAmount,
	FieldDuration,
}

// CategoricalFields are the fields that go through an encoder
var CategoricalFields = []string{
	FieldSex,
	FieldHousing,
	FieldSavingAccounts,
	FieldCheckingAccount,
}

// Applicant holds the raw attributes collected for one prediction
type Applicant struct {
	Age             int
	Sex             string
	Job             int
	Housing         string
	SavingAccounts  string
	CheckingAccount string
	CreditAmount    int
	Duration        int
}

// FeatureVector is an applicant with categorical fields replaced by their
// codes, laid out in FeatureColumns order
type FeatureVector []float64
