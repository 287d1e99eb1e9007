// Package statuses is the canonical registry of hiring pipeline statuses.
// Every status has a stable integer code and a human-readable description;
// the description is what gets stored on candidates and in status history.
package statuses

import (
	"fmt"
	"sort"
)

type Status struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}

// Pipeline status descriptions. Codes live in the table below.
const (
	CandidateEnteredBySystem = "Candidate Entered by System"

	ATSShortlisted  = "ATS Shortlisted"
	ResumeDeclined  = "Resume declined"
	ResumeSubmitted = "Resume submitted"
	ResumeAccepted  = "Resume Accepted"

	L1InterviewScheduled         = "L1 interview scheduled"
	L1Rescheduled                = "L1 Re-scheduled"
	L1SecondInterviewRescheduled = "L1 second interview Re-scheduled"
	CameToInterview              = "Came to interview"
	L1Selected                   = "L1 Selected"
	L1Rejected                   = "L1 Rejected"

	L2InterviewScheduled         = "L2 interview scheduled"
	L2Rescheduled                = "L2 interview Re-scheduled"
	L2SecondInterviewRescheduled = "L2 second interview Re-scheduled"
	L2Selected                   = "L2 Selected"
	L2Rejected                   = "L2 Rejected"

	HRScheduled     = "HR scheduled"
	HRRescheduled   = "HR Re-scheduled"
	HRRoundSelected = "HR Round Selected"
	HRRoundRejected = "HR Round Rejected"

	DocVerificationPending = "Document Verification Pending"
	DocsCleared            = "Documents Cleared"
	DocsRejected           = "Documents Rejected"

	BGCleared = "BG Cleared"
	BGFailed  = "BG Failed"

	OfferLetterOnHold = "Offer Letter On Hold"
	OfferLetterIssued = "Offer Letter Issued"
	OfferAccepted     = "Offer Accepted"
	OfferRejected     = "Offer Rejected"

	CandidateJoined    = "Candidate Joined"
	CandidateNotJoined = "Candidate Not Joined"

	MessageNotSent         = "Message Not Sent"
	MessageSent            = "Message Sent"
	MessageDelivered       = "Message Delivered"
	SentMessageViewed      = "Sent Message Viewed"
	CandidateResponded     = "Candidate Responded"
	CandidateNotInterested = "Candidate not interested"
	CandidateIsInterested  = "Candidate is interested"

	InvoiceRaised   = "Invoice Raised"
	InvoiceRejected = "Invoice Rejected"
	PaymentReceived = "Payment Received"
)

var table = []Status{
	{5, CameToInterview},
	{10, CandidateEnteredBySystem},
	{15, MessageNotSent},
	{20, MessageSent},
	{25, ATSShortlisted},
	{30, MessageDelivered},
	{40, SentMessageViewed},
	{50, CandidateResponded},
	{55, CandidateNotInterested},
	{60, CandidateIsInterested},
	{70, ResumeSubmitted},
	{75, ResumeDeclined},
	{80, ResumeAccepted},
	{90, L1InterviewScheduled},
	{92, L1Rescheduled},
	{94, L1SecondInterviewRescheduled},
	{95, L1Rejected},
	{100, L1Selected},
	{102, BGCleared},
	{105, BGFailed},
	{110, L2InterviewScheduled},
	{112, L2Rescheduled},
	{114, L2SecondInterviewRescheduled},
	{115, L2Rejected},
	{120, L2Selected},
	{130, HRScheduled},
	{132, HRRescheduled},
	{135, HRRoundRejected},
	{140, HRRoundSelected},
	{142, DocVerificationPending},
	{144, DocsCleared},
	{145, OfferLetterOnHold},
	{146, DocsRejected},
	{150, OfferLetterIssued},
	{155, OfferRejected},
	{160, OfferAccepted},
	{165, CandidateNotJoined},
	{170, CandidateJoined},
	{180, InvoiceRaised},
	{185, InvoiceRejected},
	{200, PaymentReceived},
}

var (
	byCode        = make(map[int]string, len(table))
	byDescription = make(map[string]int, len(table))
)

func init() {
	for _, s := range table {
		byCode[s.Code] = s.Description
		byDescription[s.Description] = s.Code
	}
}

// Describe returns the description for a code. Historical codes may outlive
// registry edits, so unknown codes yield a placeholder instead of an error.
func Describe(code int) string {
	if descr, ok := byCode[code]; ok {
		return descr
	}
	return fmt.Sprintf("Unknown Status Code: %d", code)
}

// CodeOf returns the code for a description, or 0 for an unrecognized one.
// Callers must not treat 0 as a valid code.
func CodeOf(description string) int {
	return byDescription[description]
}

// IsValid reports whether a description is a registered pipeline status.
func IsValid(description string) bool {
	_, ok := byDescription[description]
	return ok
}

// All returns every registered status ordered by code.
func All() []Status {
	out := make([]Status, len(table))
	copy(out, table)
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Descriptions returns every registered description ordered by code.
func Descriptions() []string {
	all := All()
	out := make([]string, len(all))
	for i, s := range all {
		out[i] = s.Description
	}
	return out
}

// rescheduleTargets maps each reschedulable status to the status a
// reschedule action moves the candidate into.
var rescheduleTargets = map[string]string{
	L1InterviewScheduled: L1Rescheduled,
	L2InterviewScheduled: L2Rescheduled,
	HRScheduled:          HRRescheduled,
}

// Reschedulable reports whether a candidate in the given status may be rescheduled.
func Reschedulable(description string) bool {
	_, ok := rescheduleTargets[description]
	return ok
}

// RescheduleTarget returns the status a reschedule from the given status
// produces, and whether the given status permits rescheduling at all.
func RescheduleTarget(current string) (string, bool) {
	target, ok := rescheduleTargets[current]
	return target, ok
}

// Tab groups statuses for board views and the dashboard distribution.
type Tab struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

const (
	TabShortlisted  = "ATS Shortlisted"
	TabInterviewing = "Interviewing"
	TabOffers       = "Offers"
	TabJoined       = "Joined"
	TabRejected     = "Rejected"
)

var tabs = []Tab{
	{TabShortlisted, []string{ATSShortlisted}},
	{TabInterviewing, []string{
		L1InterviewScheduled, L2InterviewScheduled, HRScheduled,
		L1Selected, L2Selected, HRRoundSelected,
	}},
	{TabOffers, []string{OfferLetterIssued, OfferAccepted}},
	{TabJoined, []string{CandidateJoined}},
	{TabRejected, []string{
		ResumeDeclined, L1Rejected, L2Rejected, HRRoundRejected,
		OfferRejected, CandidateNotJoined,
	}},
}

// Tabs returns the board tabs in display order.
func Tabs() []Tab {
	out := make([]Tab, len(tabs))
	for i, t := range tabs {
		members := make([]string, len(t.Members))
		copy(members, t.Members)
		out[i] = Tab{Name: t.Name, Members: members}
	}
	return out
}

// TabFor returns the tab a status belongs to, or "" if it is untabbed.
func TabFor(description string) string {
	for _, t := range tabs {
		for _, m := range t.Members {
			if m == description {
				return t.Name
			}
		}
	}
	return ""
}

// PipelineStages returns the stage statuses counted on the candidates board.
func PipelineStages() []string {
	return []string{
		ATSShortlisted,
		L1InterviewScheduled,
		L2InterviewScheduled,
		HRScheduled,
		OfferLetterIssued,
		CandidateJoined,
		ResumeDeclined,
	}
}
