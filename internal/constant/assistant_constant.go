package constant

const (
	// Action categories (closed set, mirrors the mobile app's action surface)
	ActionSearchMember = "search_member"
	ActionPostDeal     = "post_deal"
	ActionViewDeals    = "view_deals"
	ActionSendLink     = "send_link"
	ActionCreateI2We   = "create_i2we"
	ActionViewProfile  = "view_profile"
	ActionViewChannels = "view_channels"
	ActionViewActivity = "view_activity"

	// Intent types
	IntentTypeKnowledge = "knowledge"
	IntentTypeAction    = "action"

	// Knowledge category used when nothing more specific applies
	KnowledgeCategoryGeneral = "general"

	// Wire limits for the remote classifier call
	ClassifyMaxQueryChars   = 2000
	ClassifyMaxContextChars = 5000

	// Separator between rendered documents in retrieval context
	KnowledgeDocSeparator = "\n\n---\n\n"

	// PlatformDescription grounds the classifier when the knowledge store is
	// empty or unreachable. It must never be empty.
	PlatformDescription = "WeVysya is a community networking platform for the Vysya community. " +
		"Members can discover each other in a directory, post and browse business deals, " +
		"send referral links, schedule one-to-one I2We meetings, and join community channels."

	// Canned assistant responses
	GenericHelpfulResponse   = "I'm here to help you with the WeVysya community. Could you tell me a bit more about what you need?"
	KnowledgeLookupResponse  = "Let me look that up for you."
	SearchMemberCannedReply  = "Taking you to the member directory to find who you're looking for."
	PostDealCannedReply      = "Opening the deal form so you can post your deal."
	ViewDealsCannedReply     = "Here are the latest deals in the community."
	NoSpeechDetectedMessage  = "No speech detected. Please try again."
	ProcessingFailedMessage  = "Sorry, I couldn't process that. Please try again."
)

// IntentClassificationPrompt is the structured-completion contract sent to
// the LLM. Placeholders: %s = action vocabulary block, %s = grounding
// context, %s = user query.
const IntentClassificationPrompt = `<system>
You are the routing brain of the WeVysya community assistant.
Given a user utterance and grounding context, decide whether to ANSWER from
knowledge or to trigger ONE application action.
You never invent actions outside the listed vocabulary.
</system>

<action_vocabulary>
%s</action_vocabulary>

<grounding_context>
%s
</grounding_context>

<user_query>
%s
</user_query>

<rules>
- type "action" only when the user clearly wants to DO something the vocabulary covers.
- type "knowledge" for questions, explanations, and anything the vocabulary does not cover.
- parameters: extract only values literally present in the query (e.g. profession, location).
- response: one or two friendly sentences the app will show and speak to the user.
- confidence: your certainty in [0,1].
</rules>

<output_format>
Respond with ONLY valid JSON:
{
  "type": "knowledge|action",
  "category": "general or an action name from the vocabulary",
  "parameters": {"profession": "...", "location": "..."},
  "response": "Natural language reply",
  "confidence": 0.9
}
</output_format>`
