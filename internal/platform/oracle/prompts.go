package oracle

import (
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// systemInstruction is the fixed policy given to the reasoning service for
// every classification request. It encodes the safety rules, the specialty
// routing table, and the emergency triggers.
const systemInstruction = `
You are a Senior Healthcare AI Product Architect and Medical Safety Engineer. Your goal is to guide users to the correct medical specialist based on symptoms.

CRITICAL SAFETY RULES:
1. NEVER diagnose. Use phrasing like "A [specialist] is typically consulted for these symptoms."
2. NEVER suggest treatments or medications.
3. DETECT EMERGENCIES IMMEDIATELY. If symptoms are severe (e.g., suspected Heart Attack, Stroke, Anaphylaxis), set urgency to EMERGENCY.
4. If symptoms are vague, set "isUnsure" to true and recommend a "General Physician".

GLOBAL SPECIALTY MAPPING LOGIC:
Route user symptoms to these specific specialties based on the affected organ system or condition:
- CARDIOLOGY: Heart, chest pain, palpitations, hypertension, circulation.
- NEUROLOGY: Brain, nerves, stroke, migraines, seizures, numbness, tremors.
- DERMATOLOGY: Skin, hair, nails, rashes, acne, moles.
- ORTHOPEDICS: Bones, joints, muscles, fractures, back pain.
- GASTROENTEROLOGY: Stomach, digestion, liver, bloating, acid reflux.
- PULMONOLOGY: Lungs, breathing, chronic cough, asthma.
- ENT (OTOLARYNGOLOGY): Ears, nose, throat, sinuses, hearing, vertigo.
- PSYCHIATRY: Mental health, anxiety, depression, mood, sleep disorders.
- ENDOCRINOLOGY: Hormones, diabetes, thyroid, metabolism, weight.
- OPHTHALMOLOGY: Eyes, vision, eye pain, redness.
- NEPHROLOGY: Kidneys, urinary blood, fluid retention.
- UROLOGY: Bladder, UTI, male reproductive, prostate.
- OBGYN: Women's health, pregnancy, pelvic pain, menstrual.
- ONCOLOGY: Suspected tumors, unexplained lumps, cancer screening.
- ALLERGY/IMMUNOLOGY: Allergic reactions, hay fever, immune system.
- RHEUMATOLOGY: Autoimmune, arthritis, chronic body pain.
- HEMATOLOGY: Blood disorders, anemia, bruising.
- PODIATRY: Feet, ankles, diabetic foot.
- INFECTIOUS DISEASE: Persistent fevers, tropical diseases, complex infections.
- PEDIATRICS: Children under 18.
- GERIATRICS: Elderly specific care.
- DENTISTRY: Teeth, gum pain, oral health.

EMERGENCY TRIGGERS (Redirect to EMERGENCY):
- Crushing chest pain or pressure.
- Difficulty breathing or gasping.
- Sudden slurred speech or facial drooping.
- Large scale uncontrolled bleeding.
- Loss of consciousness.
- Severe allergic reaction (swelling of throat/face).

Output MUST be valid JSON matching the schema provided.
`

// emergencyFacilitiesQuery is the fixed query for the emergency sibling
// operation; it carries no specialty filter.
const emergencyFacilitiesQuery = `Find the absolute nearest emergency rooms (ER), 24/7 hospitals, and trauma centers. I need immediate life-saving medical care.`

// searchingPlaceholder is returned as the narrative text when the service
// produced sources but no prose.
const searchingPlaceholder = "Searching local medical directories..."

// analysisSchema mirrors the six-field classification contract. All six keys
// are mandatory in the model's reply.
func analysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"urgency": {
				Type:        genai.TypeString,
				Description: "LOW, MODERATE, HIGH, or EMERGENCY",
			},
			"specialty": {
				Type:        genai.TypeString,
				Description: "The exact medical specialty title (e.g., Cardiologist, Dermatologist).",
			},
			"explanation": {
				Type:        genai.TypeString,
				Description: "A professional and clear explanation of why this specialist is appropriate.",
			},
			"nextSteps": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Specific non-medical guidance steps.",
			},
			"isEmergency": {
				Type: genai.TypeBoolean,
			},
			"isUnsure": {
				Type:        genai.TypeBoolean,
				Description: "True if the symptoms are too vague to be certain.",
			},
			"followUpQuestions": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Optional clarifying questions when the picture is incomplete.",
			},
		},
		Required: []string{"urgency", "specialty", "explanation", "nextSteps", "isEmergency", "isUnsure"},
	}
}

// buildTriagePrompt renders a UserInput as the classification instruction.
// Absent optional fields are spelled out rather than omitted so the model
// never guesses at missing context.
func buildTriagePrompt(input UserInput) string {
	var b strings.Builder
	b.WriteString("USER PROFILE & SYMPTOMS:\n")
	fmt.Fprintf(&b, "Symptoms: %s\n", input.Symptoms)
	fmt.Fprintf(&b, "Duration: %s\n", orNotSpecified(input.Duration))
	fmt.Fprintf(&b, "Onset: %s\n", orNotSpecified(input.Onset))
	if input.Severity > 0 {
		fmt.Fprintf(&b, "Severity: %d/10\n", input.Severity)
	} else {
		b.WriteString("Severity: Not specified\n")
	}
	fmt.Fprintf(&b, "Age Group: %s\n", orNotSpecified(input.AgeGroup))
	if input.ExistingConditions != "" {
		fmt.Fprintf(&b, "Existing Conditions: %s\n", input.ExistingConditions)
	} else {
		b.WriteString("Existing Conditions: None reported\n")
	}
	b.WriteString("\nDetermine the urgency and the correct medical specialty.")
	return b.String()
}

// buildProviderQuery renders the location-grounded discovery query for a
// specialty and the user's own wording of their symptoms.
func buildProviderQuery(specialty, symptoms string) string {
	return fmt.Sprintf(
		"Find highly-rated %s clinics and specialist doctors near me who can help with: %s. "+
			"Include medical offices, private practices, and outpatient centers.",
		specialty, symptoms)
}

func orNotSpecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}
