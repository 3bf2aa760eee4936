package service

import "strings"

// Рекомендации пока статические: подбор по почтовому индексу и профессии
// без внешнего движка. Формат ответа фиксирован, чтобы замена на реальный
// рекомендатель не меняла транспортный контракт.

// EventRecommendation — рекомендованное событие.
type EventRecommendation struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Location string `json:"location"`
}

// InterestRecommendation — рекомендованный интерес.
type InterestRecommendation struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RecommendEvents возвращает события по почтовому индексу.
// Для индекса "10001" (Манхэттен) — локальные события, иначе общий набор.
func (s *Service) RecommendEvents(zipCode string) []EventRecommendation {
	if zipCode == "10001" {
		return []EventRecommendation{
			{ID: 1, Title: "Tech Meetup NYC", Date: "2024-11-15", Location: "Manhattan, NY"},
			{ID: 2, Title: "Afro-Tech Summit", Date: "2024-12-01", Location: "Brooklyn, NY"},
		}
	}

	return []EventRecommendation{
		{ID: 3, Title: "Global Diaspora Conference", Date: "2024-11-20", Location: "Online"},
		{ID: 4, Title: "Local Cultural Festival", Date: "2024-11-25", Location: "City Center"},
	}
}

// RecommendInterests возвращает интересы по профессии.
// Профессии, содержащие "Software", получают технический набор.
func (s *Service) RecommendInterests(profession string) []InterestRecommendation {
	if strings.Contains(profession, "Software") {
		return []InterestRecommendation{
			{ID: 1, Name: "Open Source Contributing"},
			{ID: 2, Name: "AI/ML Workshops"},
			{ID: 3, Name: "Tech Mentorship"},
		}
	}

	return []InterestRecommendation{
		{ID: 4, Name: "Community Building"},
		{ID: 5, Name: "Cultural Exchange"},
		{ID: 6, Name: "Entrepreneurship"},
	}
}
