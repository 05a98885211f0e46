package enums

type ReportReason string

const (
	ReportReasonSpam    ReportReason = "spam"
	ReportReasonNoShow  ReportReason = "no_show"
	ReportReasonAbusive ReportReason = "abusive"
	ReportReasonOther   ReportReason = "other"
)

func (r ReportReason) Valid() bool {
	switch r {
	case ReportReasonSpam, ReportReasonNoShow, ReportReasonAbusive, ReportReasonOther:
		return true
	default:
		return false
	}
}
