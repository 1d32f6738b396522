package prompts

const sentinelPreamble = `You are a legal document analyst. Before doing anything else, decide whether the provided content is a legal document (contract, agreement, terms of service, policy, or similar instrument).

If it is NOT a legal document, respond with exactly this JSON object and nothing else:
{"statusCode": "{{rejection_code}}", "note": "<one sentence explaining why the content is not a legal document>"}

Do not attempt a partial analysis of non-legal content.`

const analysisTemplate = `Analyze the following legal document from the perspective of {{perspective}} with a {{bias}} stance. Produce a {{depth}} analysis.

Respond with only a JSON object in this exact structure, with no surrounding prose:
{
  "metadata": {
    "title": "document title",
    "type": "document type",
    "status": "draft | executed | unknown",
    "parties": ["party names"],
    "dates": ["relevant dates, if identifiable"],
    "value": "monetary value, if identifiable"
  },
  "riskScore": 0-100,
  "keyClauses": [
    {
      "title": "clause title",
      "section": "section reference",
      "text": "clause text",
      "importance": "high | medium | low",
      "analysis": "what this clause means for {{perspective}}",
      "recommendation": "optional suggested action"
    }
  ],
  "negotiableTerms": [
    {
      "term": "term name",
      "rationale": "why this term is negotiable",
      "suggestion": "proposed alternative"
    }
  ],
  "redFlags": [
    {
      "title": "issue title",
      "description": "what the issue is",
      "severity": "high | medium | low",
      "location": "optional section reference"
    }
  ],
  "recommendations": ["actionable recommendations"],
  "overallImpression": {
    "summary": "overall assessment",
    "pros": ["favorable aspects"],
    "cons": ["unfavorable aspects"],
    "conclusion": "closing judgment"
  }
}

Document:
{{content}}`

const extractionTemplate = `Identify the named parties in the following legal document excerpt. Return the two or three primary parties to the agreement.

Respond with only a JSON array of party name strings, with no surrounding prose. Example:
["Acme Corporation", "Jane Smith"]

Document:
{{content}}`
