package chatbot

import "strings"

type faqEntry struct {
	keyword string
	answer  string
}

const (
	answerPricing     = "Nos tarifs démarrent à 499 € pour un site vitrine. Découvrez toutes nos offres sur la page Offres !"
	answerDelay       = "Un site vitrine prend généralement 2-3 semaines. Un e-commerce peut prendre 4-6 semaines selon la complexité."
	answerMaintenance = "Oui ! Nos abonnements incluent la maintenance, les mises à jour de sécurité et le support technique."
	answerPayment     = "Nous acceptons les cartes bancaires (Visa, Mastercard), les virements et le paiement en 3 fois."
	answerContact     = "Vous pouvez nous contacter via la page Contact ou par email à contact@nexus.com"

	// FallbackAnswer is returned when no FAQ keyword matches.
	FallbackAnswer = "Merci pour votre message ! Pour une réponse personnalisée, n'hésitez pas à nous contacter via la page Contact ou à appeler notre équipe. 📞"
)

// faqTable is ordered; the first keyword found in the message wins.
var faqTable = []faqEntry{
	{keyword: "tarif", answer: answerPricing},
	{keyword: "prix", answer: answerPricing},
	{keyword: "délai", answer: answerDelay},
	{keyword: "temps", answer: answerDelay},
	{keyword: "maintenance", answer: answerMaintenance},
	{keyword: "paiement", answer: answerPayment},
	{keyword: "contact", answer: answerContact},
}

// MatchFAQ returns the canned answer for the first keyword contained in
// message (case-insensitive), or FallbackAnswer.
func MatchFAQ(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, entry := range faqTable {
		if strings.Contains(lower, entry.keyword) {
			return entry.answer, true
		}
	}
	return FallbackAnswer, false
}
