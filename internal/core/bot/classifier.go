// Package bot implements the scripted message classifier that drives the
// automated side of customer conversations. Everything here is pure and
// deterministic: the same input always yields the same output, byte for byte.
package bot

import (
	"regexp"
	"strings"
)

// HandoffMessage is the scripted reply appended when a conversation is
// escalated to a human agent.
const HandoffMessage = "🙋 Connecting you to our support team...\n\nA customer support agent will assist you shortly!\n\nAverage wait time: 2-3 minutes"

// escalationTriggers are the phrases that force a hand-off to a human agent.
// Matching is a case-insensitive substring check.
var escalationTriggers = []string{
	"human", "agent", "person", "representative",
	"talk to someone", "speak to", "real person",
	"customer care", "support", "help me",
}

// ShouldEscalate reports whether the message asks for a human agent. The
// check is independent of reply generation and takes priority over it.
func ShouldEscalate(text string) bool {
	msg := strings.ToLower(text)
	for _, trigger := range escalationTriggers {
		if strings.Contains(msg, trigger) {
			return true
		}
	}
	return false
}

// Categorize maps a message to a ticket category label. First match wins; the
// ticket's category is overwritten on every inbound message.
func Categorize(text string) string {
	msg := strings.ToLower(text)
	switch {
	case strings.Contains(msg, "document"):
		return "Documents"
	case strings.Contains(msg, "status"), strings.Contains(msg, "track"):
		return "Status Check"
	case strings.Contains(msg, "loan"), strings.Contains(msg, "apply"):
		return "Loan Application"
	case strings.Contains(msg, "complain"), strings.Contains(msg, "issue"):
		return "Complaint"
	default:
		return "General Inquiry"
	}
}

var (
	greetingPattern = regexp.MustCompile(`^(hello|hi|hey|good morning|good afternoon|good evening)`)
	appIDPattern    = regexp.MustCompile(`app-?\d+`)
)

// rule pairs a predicate on the lower-cased message with a reply producer.
// Rules are evaluated top to bottom and the first match wins, so narrower
// rules ("business loan") must precede the broader ones that would shadow
// them ("loan").
type rule struct {
	match func(msg string) bool
	reply func(msg string) string
}

func containsAny(msg string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

func canned(text string) func(string) string {
	return func(string) string { return text }
}

var replyRules = []rule{
	{
		match: greetingPattern.MatchString,
		reply: canned("Hello! Welcome to KRUX Finance 👋\n\nI'm your virtual assistant. I can help you with:\n\n🏦 Loan Applications\n📄 Document Requirements\n📊 Application Status\n👤 Connect with Support Agent\n\nHow can I assist you today?"),
	},
	{
		match: func(msg string) bool {
			return strings.Contains(msg, "loan") && containsAny(msg, "apply", "application", "new")
		},
		reply: canned("Great! I can guide you through our loan application process.\n\n💼 We offer:\n• Business Loans (up to ₹50 Lakhs)\n• Personal Loans (up to ₹25 Lakhs)\n• Home Loans (up to ₹5 Crores)\n• Vehicle Loans (up to ₹15 Lakhs)\n• MSME Loans (up to ₹1 Crore)\n\nWhich loan type interests you?"),
	},
	{
		match: func(msg string) bool { return containsAny(msg, "business loan", "business") },
		reply: canned("Business Loan Details:\n\n💰 Loan Amount: ₹1 Lakh - ₹50 Lakhs\n⏱️ Tenure: 1-7 years\n📉 Interest Rate: 10.5% onwards*\n\n✅ Required Documents:\n• Business proof (GST, Shop Act)\n• Income tax returns (2 years)\n• Bank statements (6 months)\n• Identity & Address proof\n\nWould you like to start an application?"),
	},
	{
		match: func(msg string) bool { return containsAny(msg, "personal loan", "personal") },
		reply: canned("Personal Loan Details:\n\n💰 Loan Amount: ₹50,000 - ₹25 Lakhs\n⏱️ Tenure: 1-5 years\n📉 Interest Rate: 11.5% onwards*\n\n✅ Minimal Documentation:\n• Salary slips (3 months)\n• Bank statements (6 months)\n• PAN & Aadhaar\n\nQuick approval in 24-48 hours!"),
	},
	{
		match: func(msg string) bool { return containsAny(msg, "document", "documents", "papers") },
		reply: canned("📋 Standard Documents Required:\n\n✓ Identity Proof: PAN Card (mandatory)\n✓ Address Proof: Aadhaar Card\n✓ Income Proof:\n  - Salaried: 3 months salary slips\n  - Self-employed: ITR for 2 years\n✓ Bank Statements: Last 6 months\n✓ Passport Photo: Recent\n\n📱 All documents can be uploaded digitally!\n\nNeed loan-specific document details?"),
	},
	{
		match: func(msg string) bool { return containsAny(msg, "status", "track", "check application") },
		reply: canned("I can help you track your application!\n\n🔍 Please provide your Application ID\n(Format: APP-XXXXX)\n\nYou can find it in:\n• SMS sent to your registered mobile\n• Email confirmation\n• Application receipt"),
	},
	{
		match: appIDPattern.MatchString,
		reply: func(msg string) string {
			appID := strings.ToUpper(appIDPattern.FindString(msg))
			return "📊 Application Status for " + appID + ":\n\n✅ Current Status: Under Review\n📅 Last Updated: Today, 09:45 AM\n⏳ Expected Timeline: 2-3 business days\n\n📋 Next Steps:\n1. Document verification in progress\n2. Credit assessment pending\n3. Final approval awaited\n\nOur team will contact you soon!"
		},
	},
	{
		match: func(msg string) bool { return containsAny(msg, "interest", "rate", "emi") },
		reply: canned("💳 Our Interest Rates:\n\n• Personal Loan: 11.5% - 18% p.a.\n• Business Loan: 10.5% - 16% p.a.\n• Home Loan: 8.5% - 10.5% p.a.\n• Vehicle Loan: 9.5% - 13% p.a.\n\n📱 Use our EMI calculator for estimates!\n\n*Rates depend on credit score and profile"),
	},
	{
		match: func(msg string) bool { return containsAny(msg, "eligib", "qualify", "criteria") },
		reply: canned("✅ Basic Eligibility Criteria:\n\n👤 Age: 21-65 years\n💼 Employment: Salaried/Self-employed\n💰 Minimum Income:\n  - Salaried: ₹25,000/month\n  - Self-employed: ₹3 Lakhs/year\n📊 Credit Score: 650+\n\n📝 Want to check your eligibility? Provide:\n• Monthly income\n• Employment type\n• Loan amount needed"),
	},
	{
		match: func(msg string) bool {
			return containsAny(msg, "agent", "human", "person", "talk to", "speak to", "representative")
		},
		reply: canned(HandoffMessage + "\n\nPlease stay connected."),
	},
	{
		match: func(msg string) bool { return containsAny(msg, "thank", "thanks") },
		reply: canned("You're most welcome! 😊\n\nIs there anything else I can help you with?\n\n• Apply for a loan\n• Check document requirements\n• Track application status\n• Speak with an agent"),
	},
	{
		match: func(msg string) bool { return containsAny(msg, "bye", "goodbye", "exit") },
		reply: canned("Thank you for contacting KRUX Finance! 👋\n\nFeel free to return anytime. We're here 24/7!\n\nHave a great day!"),
	},
}

const defaultReply = "I'm here to help! 😊\n\n🔍 I can assist you with:\n\n1️⃣ New loan applications\n2️⃣ Document requirements\n3️⃣ Application status tracking\n4️⃣ Interest rates & EMI\n5️⃣ Eligibility criteria\n6️⃣ Connect with support agent\n\nPlease tell me what you need, or type 'agent' to speak with our team!"

// Reply produces the scripted bot response for a customer message.
func Reply(text string) string {
	msg := strings.ToLower(text)
	for _, r := range replyRules {
		if r.match(msg) {
			return r.reply(msg)
		}
	}
	return defaultReply
}

// Result bundles the full classification of one inbound message.
type Result struct {
	Reply    string
	Escalate bool
	Category string
}

// Classify runs all three classifications over a message. Escalation and
// categorization are independent of reply generation; when Escalate is set
// the orchestrator appends HandoffMessage instead of Reply.
func Classify(text string) Result {
	return Result{
		Reply:    Reply(text),
		Escalate: ShouldEscalate(text),
		Category: Categorize(text),
	}
}
