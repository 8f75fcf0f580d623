package vibe

import "fmt"

// systemInstruction is the fixed system prompt sent with every request.
const systemInstruction = "You are a music expert who can analyze personality descriptions and suggest matching music vibes. Always respond with valid JSON."

// userPromptTemplate restates the five required fields, quotes the
// description verbatim and pins the output to an exact JSON schema.
const userPromptTemplate = `Given the following description of a person, suggest:
1. Mood
2. Music genre
3. Energy level (low, medium, high)
4. Aesthetic keywords (3-5)
5. A matching artist or song

Description: "%s"

Please respond with a JSON object in this exact format:
{
    "mood": "string",
    "genre": "string",
    "energy_level": "string",
    "aesthetic_keywords": ["string1", "string2", "string3"],
    "suggested_music": "string"
}
Do not include any text outside the JSON object.`

// BuildPrompt renders the generation prompt for a description. Pure function:
// the same description always yields byte-identical output.
func BuildPrompt(description string) (system, user string) {
	return systemInstruction, fmt.Sprintf(userPromptTemplate, description)
}
