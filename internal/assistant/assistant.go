// Package assistant answers support chat messages with a static ordered keyword table.
package assistant

import "strings"

const Fallback = "Ho ricevuto il tuo messaggio!"

type Rule struct {
	Keywords []string
	Response string
}

// DefaultRules are evaluated in order, the first matching rule wins
var DefaultRules = []Rule{
	{
		Keywords: []string{"ciao", "salve", "buongiorno"},
		Response: "Ciao! Sono l'assistente di ConnectHub. Come posso aiutarti?",
	},
	{
		Keywords: []string{"escrow", "pagamento", "pagato", "wallet", "saldo"},
		Response: "Il compenso di una campagna viene depositato in escrow e rilasciato nel tuo saldo disponibile quando l'azienda approva il video.",
	},
	{
		Keywords: []string{"proposta", "campagna", "contratto"},
		Response: "Puoi candidarti a una campagna dalla sezione Creator Hub. Dopo l'accettazione riceverai il contratto da confermare.",
	},
	{
		Keywords: []string{"video", "revisione"},
		Response: "Carica il link del video dalla proposta accettata: l'azienda potra' approvarlo o chiedere una revisione.",
	},
	{
		Keywords: []string{"sponsor", "donazione", "ricevuta"},
		Response: "Per ogni sponsorizzazione generiamo una ricevuta valida per la detrazione fiscale.",
	},
	{
		Keywords: []string{"startup", "investi", "loi"},
		Response: "Gli investitori possono inviare una lettera di intenti dalla sezione Startup. Il pitch passa allora in trattativa.",
	},
	{
		Keywords: []string{"grazie"},
		Response: "Figurati! Sono qui se ti serve altro.",
	},
}

type Assistant struct {
	rules []Rule
}

func New(rules []Rule) *Assistant {
	return &Assistant{rules: rules}
}

// Reply returns the response of the first rule having a keyword inside the text
func (a *Assistant) Reply(text string) string {
	lower := strings.ToLower(text)
	for _, r := range a.rules {
		for _, k := range r.Keywords {
			if strings.Contains(lower, k) {
				return r.Response
			}
		}
	}

	return Fallback
}
