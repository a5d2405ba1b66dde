package telco

import (
	"math"
	"sort"
	"strings"
)

// RCA is the root-cause-analysis record attached to a resolved ticket.
type RCA struct {
	RootCause          string   `json:"rootCause"`
	IdentifiedBy       string   `json:"identifiedBy"`
	IdentifiedDate     string   `json:"identifiedDate"`
	AffectedModels     []string `json:"affectedModels"`
	FixApplied         string   `json:"fixApplied"`
	PreventiveMeasures []string `json:"preventiveMeasures"`
}

// ResolvedTicket is one entry of the similarity-search corpus. The
// embedding is a mock vector; a production system would load it from a
// vector store.
type ResolvedTicket struct {
	TicketID         string    `json:"ticketId"`
	ShortDescription string    `json:"shortDescription"`
	LongDescription  string    `json:"longDescription"`
	Category         string    `json:"category"`
	Severity         string    `json:"severity"`
	ResolvedDate     string    `json:"resolvedDate"`
	ResolutionTime   string    `json:"resolutionTime"`
	CustomerCount    int       `json:"customerCount"`
	RCA              RCA       `json:"rca"`
	embedding        []float64
}

// SearchMatch is a corpus entry with its similarity score.
type SearchMatch struct {
	ResolvedTicket
	SimilarityScore float64 `json:"similarityScore"`
}

// SearchResults is the payload returned by SearchTickets.
type SearchResults struct {
	SearchQuery     string        `json:"searchQuery"`
	TotalResults    int           `json:"totalResults"`
	SearchTimestamp string        `json:"searchTimestamp"`
	Results         []SearchMatch `json:"results"`
}

// defaultTopK bounds how many matches a search returns.
const defaultTopK = 5

// SearchTickets ranks the resolved-ticket corpus against a natural
// language query by cosine similarity over mock embeddings and returns
// the top matches with their RCA records.
func (s *Service) SearchTickets(query string, topK int) (*SearchResults, *DomainError) {
	if strings.TrimSpace(query) == "" {
		return nil, domainErr("Search query must not be empty")
	}
	if topK <= 0 {
		topK = defaultTopK
	}

	queryEmbedding := mockQueryEmbedding(query)

	matches := make([]SearchMatch, 0, len(resolvedCorpus))
	for _, t := range resolvedCorpus {
		matches = append(matches, SearchMatch{
			ResolvedTicket:  t,
			SimilarityScore: cosineSimilarity(queryEmbedding, t.embedding),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SimilarityScore > matches[j].SimilarityScore
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}

	return &SearchResults{
		SearchQuery:     query,
		TotalResults:    len(matches),
		SearchTimestamp: s.now().UTC().Format(rfc3339Millis),
		Results:         matches,
	}, nil
}

// mockQueryEmbedding simulates semantic understanding with
// keyword-derived vectors aligned with the corpus embeddings.
func mockQueryEmbedding(query string) []float64 {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "internet") || strings.Contains(q, "connection") || strings.Contains(q, "disconnect"):
		return []float64{0.80, 0.47, 0.25, 0.68, 0.90}
	case strings.Contains(q, "phone") || strings.Contains(q, "call") || strings.Contains(q, "dial"):
		return []float64{0.18, 0.75, 0.42, 0.25, 0.35}
	case strings.Contains(q, "wifi") || strings.Contains(q, "wireless"):
		return []float64{0.74, 0.40, 0.50, 0.65, 0.86}
	case strings.Contains(q, "slow") || strings.Contains(q, "speed"):
		return []float64{0.76, 0.50, 0.33, 0.70, 0.87}
	default:
		return []float64{0.50, 0.50, 0.50, 0.50, 0.50}
	}
}

func cosineSimilarity(a, b []float64) float64 {
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

var resolvedCorpus = []ResolvedTicket{
	{
		TicketID:         "TKT-2024-001234",
		ShortDescription: "Internet connection drops frequently",
		LongDescription:  "Customer reports intermittent internet disconnections every 2-3 hours. Connection drops last 5-10 minutes.",
		Category:         "Connectivity",
		Severity:         "Medium",
		ResolvedDate:     "2024-12-15T14:30:00Z",
		ResolutionTime:   "4.5 hours",
		CustomerCount:    12,
		embedding:        []float64{0.82, 0.45, 0.23, 0.67, 0.91},
		RCA: RCA{
			RootCause:      "Firmware bug in router model XR-2000 causing memory leak",
			IdentifiedBy:   "Tech Team Lead - Sarah Johnson",
			IdentifiedDate: "2024-12-15T10:15:00Z",
			AffectedModels: []string{"XR-2000", "XR-2001"},
			FixApplied:     "Firmware update v2.4.1 deployed remotely",
			PreventiveMeasures: []string{
				"Auto-update firmware enabled for all XR-2000 series",
				"Monitoring alerts configured for memory usage spikes",
				"Customer notification system activated for affected models",
			},
		},
	},
	{
		TicketID:         "TKT-2024-002156",
		ShortDescription: "No dial tone on landline",
		LongDescription:  "Customer cannot make or receive calls. Phone displays 'No Service' message. Issue started after power outage.",
		Category:         "Voice Services",
		Severity:         "High",
		ResolvedDate:     "2024-12-18T09:20:00Z",
		ResolutionTime:   "2.1 hours",
		CustomerCount:    8,
		embedding:        []float64{0.15, 0.78, 0.44, 0.22, 0.33},
		RCA: RCA{
			RootCause:      "Network switch power supply failure affecting POTS lines in zone 4B",
			IdentifiedBy:   "Field Engineer - Marcus Chen",
			IdentifiedDate: "2024-12-18T08:00:00Z",
			AffectedModels: []string{"Legacy POTS infrastructure"},
			FixApplied:     "Replaced redundant power supply unit in network switch NS-440",
			PreventiveMeasures: []string{
				"Scheduled quarterly power supply health checks",
				"Battery backup installation for critical switches",
				"Proactive component replacement for units over 5 years old",
			},
		},
	},
	{
		TicketID:         "TKT-2024-003421",
		ShortDescription: "Slow internet speed during peak hours",
		LongDescription:  "Customer experiences significant speed reduction (from 100Mbps to 15Mbps) between 6PM-10PM daily. Speeds normal during other times.",
		Category:         "Connectivity",
		Severity:         "Low",
		ResolvedDate:     "2024-12-10T16:45:00Z",
		ResolutionTime:   "72 hours",
		CustomerCount:    45,
		embedding:        []float64{0.78, 0.52, 0.31, 0.69, 0.88},
		RCA: RCA{
			RootCause:      "Network congestion due to oversubscription in residential area (Oakwood subdivision)",
			IdentifiedBy:   "Network Planning - David Kumar",
			IdentifiedDate: "2024-12-08T11:30:00Z",
			AffectedModels: []string{"N/A - Infrastructure capacity issue"},
			FixApplied:     "Additional fiber trunk installed to increase backbone capacity by 40%",
			PreventiveMeasures: []string{
				"Capacity monitoring dashboard deployed for high-density areas",
				"Proactive network expansion triggered when utilization exceeds 70%",
				"Customer communication protocol for planned upgrades",
			},
		},
	},
	{
		TicketID:         "TKT-2024-004567",
		ShortDescription: "WiFi not working after router reset",
		LongDescription:  "Customer reset router to troubleshoot speed issues. After reset, WiFi network not visible. Ethernet connection works fine.",
		Category:         "Equipment",
		Severity:         "Medium",
		ResolvedDate:     "2024-12-19T11:10:00Z",
		ResolutionTime:   "1.5 hours",
		CustomerCount:    3,
		embedding:        []float64{0.71, 0.38, 0.55, 0.62, 0.84},
		RCA: RCA{
			RootCause:      "Factory reset cleared custom WiFi configuration; auto-config service failed due to expired SSL certificate",
			IdentifiedBy:   "Remote Tech Support - Lisa Park",
			IdentifiedDate: "2024-12-19T10:00:00Z",
			AffectedModels: []string{"Router Model WF-5G-Pro"},
			FixApplied:     "Manual WiFi reconfiguration via customer portal; SSL certificate renewed on auto-config server",
			PreventiveMeasures: []string{
				"Certificate expiration monitoring system implemented",
				"Auto-renewal configured 30 days before expiration",
				"Backup configuration storage in customer profile",
			},
		},
	},
	{
		TicketID:         "TKT-2024-005892",
		ShortDescription: "Intermittent connection drops",
		LongDescription:  "Customer reports WiFi connection dropping randomly 4-6 times per day. Each drop lasts 2-3 minutes. All devices affected simultaneously.",
		Category:         "Connectivity",
		Severity:         "Medium",
		ResolvedDate:     "2024-12-12T13:25:00Z",
		ResolutionTime:   "6 hours",
		CustomerCount:    7,
		embedding:        []float64{0.85, 0.48, 0.26, 0.71, 0.93},
		RCA: RCA{
			RootCause:      "Radio frequency interference from neighboring channel overlap and baby monitor on 2.4GHz",
			IdentifiedBy:   "Field Technician - Robert Martinez",
			IdentifiedDate: "2024-12-12T09:30:00Z",
			AffectedModels: []string{"Router Model AC-1900"},
			FixApplied:     "Changed WiFi channel from auto to fixed channel 11; upgraded router to dual-band model with automatic band steering",
			PreventiveMeasures: []string{
				"WiFi spectrum analyzer tool deployed for field techs",
				"Customer education on device interference sources",
				"Default router settings optimized for high-density areas",
			},
		},
	},
}
