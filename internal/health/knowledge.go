package health

import (
	"slices"
	"strings"

	"pet-behavior-analysis/internal/risk"
)

// Urgency tiene orden total none < low < medium < high < critical.
type Urgency string

const (
	UrgencyNone     Urgency = "none"
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

func (u Urgency) Rank() int {
	switch u {
	case UrgencyLow:
		return 1
	case UrgencyMedium:
		return 2
	case UrgencyHigh:
		return 3
	case UrgencyCritical:
		return 4
	default:
		return 0
	}
}

func MaxUrgency(a, b Urgency) Urgency {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

type Reference struct {
	Key            string   `json:"key"`
	Description    string   `json:"description"`
	PossibleCauses []string `json:"possible_causes"`
	Urgency        Urgency  `json:"urgency"`
	Action         string   `json:"action"`
	synonyms       []string
}

// KnowledgeBase es de solo lectura una vez construida.
type KnowledgeBase struct {
	entries map[string]Reference
	keys    []string
}

func newKnowledgeBase(refs []Reference) *KnowledgeBase {
	kb := &KnowledgeBase{entries: make(map[string]Reference, len(refs))}
	for _, r := range refs {
		kb.entries[r.Key] = r
		kb.keys = append(kb.keys, r.Key)
	}
	slices.Sort(kb.keys)
	return kb
}

func (kb *KnowledgeBase) Lookup(key string) (Reference, bool) {
	r, ok := kb.entries[key]
	if ok {
		r.PossibleCauses = slices.Clone(r.PossibleCauses)
	}
	return r, ok
}

// Resolve busca la referencia de un texto libre. Por clave (en orden): la
// clave con espacios como substring, todos sus tokens presentes, o un sinónimo.
func (kb *KnowledgeBase) Resolve(text string) (string, bool) {
	t := risk.Normalize(text)
	if t == "" {
		return "", false
	}
	for _, key := range kb.keys {
		spaced := strings.ReplaceAll(key, "_", " ")
		if strings.Contains(t, spaced) || allTokens(t, strings.Fields(spaced)) {
			return key, true
		}
		for _, syn := range kb.entries[key].synonyms {
			if strings.Contains(t, syn) {
				return key, true
			}
		}
	}
	return "", false
}

func allTokens(text string, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		if !strings.Contains(text, tok) {
			return false
		}
	}
	return true
}

// Knowledge es la base de referencia de síntomas del servicio.
var Knowledge = newKnowledgeBase([]Reference{
	{
		Key:            "blood_urine",
		Description:    "Blood in urine or stool",
		PossibleCauses: []string{"urinary tract infection", "bladder stones", "colitis", "intestinal parasites", "clotting disorder"},
		Urgency:        UrgencyHigh,
		Action:         "Contact your veterinarian today and bring a fresh urine or stool sample if you can.",
		synonyms:       []string{"blood in stool", "bloody urine", "bloody stool", "blood in urine", "bloody"},
	},
	{
		Key:            "constipation",
		Description:    "Difficulty passing stool",
		PossibleCauses: []string{"dehydration", "low-fiber diet", "hairballs", "foreign body"},
		Urgency:        UrgencyMedium,
		Action:         "Increase water intake and consult your vet if no stool is passed within 48 hours.",
		synonyms:       []string{"constipated", "hard stool"},
	},
	{
		Key:            "coughing",
		Description:    "Persistent coughing",
		PossibleCauses: []string{"kennel cough", "heart disease", "allergies", "collapsing trachea"},
		Urgency:        UrgencyMedium,
		Action:         "Keep your pet calm, avoid neck collars, and book a vet visit if the cough lasts more than a few days.",
		synonyms:       []string{"cough", "hacking"},
	},
	{
		Key:            "decreased_appetite",
		Description:    "Eating less than usual",
		PossibleCauses: []string{"stress", "dental pain", "diet change", "early illness"},
		Urgency:        UrgencyLow,
		Action:         "Offer small, fresh meals and track how much is eaten over the next few days.",
		synonyms:       []string{"eating less", "reduced appetite", "picky eating"},
	},
	{
		Key:            "dehydration",
		Description:    "Not drinking water",
		PossibleCauses: []string{"nausea", "fever", "kidney disease", "oral pain"},
		Urgency:        UrgencyHigh,
		Action:         "Offer fresh water and contact your vet today; check gum moisture and skin elasticity.",
		synonyms:       []string{"not drinking", "no water", "refusing water", "dry gums"},
	},
	{
		Key:            "diarrhea",
		Description:    "Loose or watery stool",
		PossibleCauses: []string{"dietary indiscretion", "parasites", "infection", "food intolerance"},
		Urgency:        UrgencyMedium,
		Action:         "Provide plenty of water and a bland diet; see your vet if it lasts over 24 hours.",
		synonyms:       []string{"loose stool", "diarrhoea", "watery stool"},
	},
	{
		Key:            "difficulty_breathing",
		Description:    "Labored or difficult breathing",
		PossibleCauses: []string{"heart failure", "airway obstruction", "pneumonia", "heatstroke"},
		Urgency:        UrgencyCritical,
		Action:         "Go to an emergency veterinary clinic now.",
		synonyms:       []string{"labored breathing", "trouble breathing", "breathing difficulty", "gasping"},
	},
	{
		Key:            "excessive_thirst",
		Description:    "Drinking more than usual",
		PossibleCauses: []string{"diabetes", "kidney disease", "hot weather", "Cushing's disease"},
		Urgency:        UrgencyMedium,
		Action:         "Measure daily water intake and schedule blood work with your vet.",
		synonyms:       []string{"drinking more", "increased thirst", "excessive drinking"},
	},
	{
		Key:            "frequent_urination",
		Description:    "Urinating more often than usual",
		PossibleCauses: []string{"urinary tract infection", "diabetes", "kidney disease"},
		Urgency:        UrgencyMedium,
		Action:         "Note frequency and volume, and arrange a urinalysis with your vet.",
		synonyms:       []string{"urinating often", "peeing a lot"},
	},
	{
		Key:            "house_soiling",
		Description:    "Accidents inside the house",
		PossibleCauses: []string{"stress", "urinary issues", "cognitive decline", "routine changes"},
		Urgency:        UrgencyLow,
		Action:         "Keep a consistent bathroom schedule and rule out medical causes with your vet.",
		synonyms:       []string{"soiling", "accident"},
	},
	{
		Key:            "itching",
		Description:    "Scratching or itchy skin",
		PossibleCauses: []string{"fleas", "allergies", "skin infection"},
		Urgency:        UrgencyLow,
		Action:         "Check for fleas and skin redness; ask your vet about allergy management.",
		synonyms:       []string{"scratching", "itchy"},
	},
	{
		Key:            "lethargy",
		Description:    "Low energy or lethargy",
		PossibleCauses: []string{"infection", "pain", "anemia", "metabolic disease"},
		Urgency:        UrgencyMedium,
		Action:         "Let your pet rest, monitor closely, and call your vet if low energy lasts beyond a day or two.",
		synonyms:       []string{"lethargic", "low energy", "low activity", "tired", "weak"},
	},
	{
		Key:            "limping",
		Description:    "Limping or favoring a limb",
		PossibleCauses: []string{"sprain", "paw injury", "arthritis"},
		Urgency:        UrgencyMedium,
		Action:         "Restrict activity and have your vet examine the limb if it does not improve in 24 hours.",
		synonyms:       []string{"limp", "lameness"},
	},
	{
		Key:            "loss_of_appetite",
		Description:    "Not eating",
		PossibleCauses: []string{"gastrointestinal upset", "dental disease", "systemic illness", "pain"},
		Urgency:        UrgencyHigh,
		Action:         "Contact your vet if your pet refuses food for more than 24 hours.",
		synonyms:       []string{"not eating", "no appetite", "refusing food", "anorexia"},
	},
	{
		Key:            "reduced_water_intake",
		Description:    "Drinking less than usual",
		PossibleCauses: []string{"nausea", "oral pain", "cooler weather", "wet-food diet"},
		Urgency:        UrgencyMedium,
		Action:         "Offer fresh water in several spots and monitor for signs of dehydration.",
		synonyms:       []string{"drinking less", "reduced thirst"},
	},
	{
		Key:            "seizures",
		Description:    "Seizures or convulsions",
		PossibleCauses: []string{"epilepsy", "toxin exposure", "low blood sugar", "brain disease"},
		Urgency:        UrgencyCritical,
		Action:         "Keep your pet away from hazards and seek emergency veterinary care immediately.",
		synonyms:       []string{"seizure", "convulsion", "fitting"},
	},
	{
		Key:            "sneezing",
		Description:    "Frequent sneezing",
		PossibleCauses: []string{"dust or irritants", "upper respiratory infection", "nasal foreign body"},
		Urgency:        UrgencyLow,
		Action:         "Reduce dust and irritants at home and watch for nasal discharge.",
		synonyms:       []string{"sneeze"},
	},
	{
		Key:            "straining",
		Description:    "Straining to urinate or defecate",
		PossibleCauses: []string{"urinary blockage", "constipation", "bladder stones"},
		Urgency:        UrgencyHigh,
		Action:         "Call your vet today; straining without output can be an emergency, especially in male cats.",
		synonyms:       []string{"strain"},
	},
	{
		Key:            "vomiting",
		Description:    "Vomiting",
		PossibleCauses: []string{"dietary indiscretion", "gastritis", "foreign body", "toxin ingestion"},
		Urgency:        UrgencyMedium,
		Action:         "Withhold food for a few hours, keep water available, and call your vet if vomiting repeats.",
		synonyms:       []string{"vomit", "throwing up"},
	},
	{
		Key:            "weight_loss",
		Description:    "Unexplained weight loss",
		PossibleCauses: []string{"parasites", "hyperthyroidism", "diabetes", "cancer"},
		Urgency:        UrgencyMedium,
		Action:         "Weigh your pet weekly and schedule a checkup to investigate the cause.",
		synonyms:       []string{"losing weight", "getting thin"},
	},
})
