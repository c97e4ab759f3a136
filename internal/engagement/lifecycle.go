package engagement

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Action string

const (
	ActionSubmit          Action = "submit"
	ActionAccept          Action = "accept"
	ActionAcceptContract  Action = "accept_contract"
	ActionFundEscrow      Action = "fund_escrow"
	ActionSubmitVideo     Action = "submit_video"
	ActionApprove         Action = "approve"
	ActionRequestRevision Action = "request_revision"
)

type transition struct {
	from    []Status
	to      Status
	payment []PaymentStatus
}

// transitions lists, per action, the statuses it may start from and the status it leads to.
// An empty target keeps the current status. RevisionRequested is the only backward step: the
// influencer is waiting to deliver a video again, so the review loop may repeat.
var transitions = map[Action]transition{
	ActionAccept: {
		from: []Status{StatusSubmitted},
		to:   StatusAccepted,
	},
	ActionAcceptContract: {
		from: []Status{StatusAccepted},
		to:   StatusAwaitingVideo,
	},
	ActionFundEscrow: {
		from:    []Status{StatusAccepted, StatusAwaitingVideo, StatusInReview, StatusRevisionRequested},
		payment: []PaymentStatus{PaymentUnpaid},
	},
	ActionSubmitVideo: {
		from: []Status{StatusAwaitingVideo, StatusRevisionRequested},
		to:   StatusInReview,
	},
	ActionApprove: {
		from:    []Status{StatusInReview},
		to:      StatusCompleted,
		payment: []PaymentStatus{PaymentEscrowFunded},
	},
	ActionRequestRevision: {
		from: []Status{StatusInReview},
		to:   StatusRevisionRequested,
	},
}

// next validates the action against the proposal state and returns the status it leads to
func next(p *Proposal, a Action) (Status, error) {
	t, ok := transitions[a]
	if !ok {
		return "", fmt.Errorf("unknown action %q: %w", a, ErrInvalidTransition)
	}

	if !slices.Contains(t.from, p.Status) {
		return "", fmt.Errorf("%s from status %q: %w", a, p.Status, ErrInvalidTransition)
	}

	if len(t.payment) > 0 && !slices.Contains(t.payment, p.PaymentStatus) {
		return "", fmt.Errorf("%s with payment %q: %w", a, p.PaymentStatus, ErrInvalidTransition)
	}

	if t.to == "" {
		return p.Status, nil
	}

	return t.to, nil
}

const contractTemplate = `CONTRATTO DI COLLABORAZIONE
Campagna: %s
Azienda: %s
Compenso: EUR %s
Consegna entro: %s

1. L'influencer realizza e pubblica il contenuto video descritto nella campagna.
2. Il compenso e' depositato in escrow e rilasciato all'approvazione del video.
3. L'azienda puo' richiedere revisioni prima dell'approvazione.
4. Il contenuto pubblicato deve riportare il codice di tracciamento assegnato.`

func contractTerms(title, company string, budget decimal.Decimal, deadline string) string {
	return fmt.Sprintf(contractTemplate, title, company, budget.StringFixed(2), deadline)
}

// newTrackingCode builds the advertising tracking code recorded with a submitted video
func newTrackingCode(proposalID uuid.UUID) string {
	code := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]

	return fmt.Sprintf("CH-%s-%s", strings.ToUpper(proposalID.String()[:8]), strings.ToUpper(code))
}

func receipt(p *Proposal, title string, amount decimal.Decimal, at time.Time) string {
	var sb strings.Builder
	sb.WriteString("RICEVUTA DI PAGAMENTO\n")
	fmt.Fprintf(&sb, "Proposta: %s\n", p.ID)
	fmt.Fprintf(&sb, "Campagna: %s\n", title)
	fmt.Fprintf(&sb, "Influencer: %s\n", p.InfluencerID)
	fmt.Fprintf(&sb, "Importo rilasciato: EUR %s\n", amount.StringFixed(2))
	fmt.Fprintf(&sb, "Data: %s", at.Format(time.RFC3339))

	return sb.String()
}
