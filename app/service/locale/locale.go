// Package locale holds every user-visible prompt in all supported languages.
package locale

type Language string

const (
	LangEN       Language = "en"
	LangML       Language = "ml"
	LangManglish Language = "manglish"
)

type Key string

const (
	KeyGreeting          Key = "greeting"
	KeyAskName           Key = "ask_name"
	KeyAskForWhom        Key = "ask_for_whom"
	KeyAskTargetName     Key = "ask_target_name"
	KeyAskService        Key = "ask_service"
	KeyAskDocuments      Key = "ask_documents"
	KeyConfirmClose      Key = "confirm_close"
	KeyClosed            Key = "closed"
	KeyResumed           Key = "resumed"
	KeyAbuseWarning      Key = "abuse_warning"
	KeyMediaNotSupported Key = "media_not_supported"
	KeyGenerationFailed  Key = "generation_failed"
	KeyClarifyIntent     Key = "clarify_intent"
	KeyLanguageChanged   Key = "language_changed"
)

var bundle = map[Key]map[Language]string{
	KeyGreeting: {
		LangEN:       "Hello! I am Nspire, your Kerala government services assistant. May I know your name?",
		LangML:       "നമസ്കാരം! ഞാൻ എൻസ്പയർ, കേരള സർക്കാർ സേവന സഹായി. താങ്കളുടെ പേര് പറയാമോ?",
		LangManglish: "Namaskaram! Njan Nspire, Kerala sarkar sevana sahayi. Ningalude peru parayamo?",
	},
	KeyAskName: {
		LangEN:       "Please tell me your name.",
		LangML:       "ദയവായി താങ്കളുടെ പേര് പറയൂ.",
		LangManglish: "Dayavayi ningalude peru parayu.",
	},
	KeyAskForWhom: {
		LangEN:       "Is this service for yourself or for someone else?",
		LangML:       "ഈ സേവനം താങ്കൾക്ക് വേണ്ടിയാണോ അതോ മറ്റാർക്കെങ്കിലും വേണ്ടിയാണോ?",
		LangManglish: "Ee sevanam ningalkku vendiyano atho mattarkkenkilum vendiyano?",
	},
	KeyAskTargetName: {
		LangEN:       "What is the name of the person you need this service for?",
		LangML:       "ആർക്ക് വേണ്ടിയാണോ ആ ആളുടെ പേര് പറയൂ.",
		LangManglish: "Aarkku vendiyano aa aalude peru parayu.",
	},
	KeyAskService: {
		LangEN:       "Which government service do you need help with?",
		LangML:       "ഏത് സർക്കാർ സേവനത്തിനാണ് സഹായം വേണ്ടത്?",
		LangManglish: "Ethu sarkar sevanathinanu sahayam vendathu?",
	},
	KeyAskDocuments: {
		LangEN:       "Which documents do you already have with you? You can say 'not sure'.",
		LangML:       "ഏതെല്ലാം രേഖകൾ ഇപ്പോൾ കൈവശമുണ്ട്? 'അറിയില്ല' എന്നും പറയാം.",
		LangManglish: "Ethokke rekhakal ippol kaivasham undu? 'Ariyilla' ennum parayam.",
	},
	KeyConfirmClose: {
		LangEN:       "Would you like to close this conversation? Reply 'yes' to close or continue typing to carry on.",
		LangML:       "ഈ സംഭാഷണം അവസാനിപ്പിക്കണോ? അവസാനിപ്പിക്കാൻ 'yes' എന്ന് മറുപടി നൽകൂ.",
		LangManglish: "Ee sambhashanam avasanippikkano? Avasanippikkan 'yes' ennu reply cheyyu.",
	},
	KeyClosed: {
		LangEN:       "Thank you for chatting with Nspire. Message me anytime you need help again!",
		LangML:       "എൻസ്പയറുമായി സംസാരിച്ചതിന് നന്ദി. വീണ്ടും സഹായം വേണ്ടപ്പോൾ മെസ്സേജ് അയയ്ക്കൂ!",
		LangManglish: "Nspire-umayi samsarichathinu nandi. Veendum sahayam vendappol message ayakku!",
	},
	KeyResumed: {
		LangEN:       "No problem, let's continue.",
		LangML:       "കുഴപ്പമില്ല, നമുക്ക് തുടരാം.",
		LangManglish: "Kuzhappamilla, namukku thudaram.",
	},
	KeyAbuseWarning: {
		LangEN:       "Please keep the conversation respectful. I am here to help you with government services.",
		LangML:       "ദയവായി മാന്യമായി സംസാരിക്കൂ. സർക്കാർ സേവനങ്ങളിൽ സഹായിക്കാനാണ് ഞാൻ ഇവിടെയുള്ളത്.",
		LangManglish: "Dayavayi manyamayi samsarikku. Sarkar sevanangalil sahayikkananu njan ivide ullathu.",
	},
	KeyMediaNotSupported: {
		LangEN:       "Sorry, I can only read text messages for now. Please type your message.",
		LangML:       "ക്ഷമിക്കണം, ഇപ്പോൾ ടെക്സ്റ്റ് മെസ്സേജുകൾ മാത്രമേ വായിക്കാനാകൂ. ദയവായി ടൈപ്പ് ചെയ്യൂ.",
		LangManglish: "Kshamikkanam, ippol text messages mathrame vayikkan pattu. Dayavayi type cheyyu.",
	},
	KeyGenerationFailed: {
		LangEN:       "Thanks for your details, our team will help you shortly.",
		LangML:       "വിവരങ്ങൾക്ക് നന്ദി, ഞങ്ങളുടെ ടീം ഉടൻ സഹായിക്കും.",
		LangManglish: "Vivarangalkku nandi, njangalude team udan sahayikkum.",
	},
	KeyClarifyIntent: {
		LangEN:       "Could you tell me more specifically which certificate or service you are looking for?",
		LangML:       "ഏത് സർട്ടിഫിക്കറ്റ് അല്ലെങ്കിൽ സേവനമാണ് വേണ്ടതെന്ന് കുറച്ചുകൂടി വ്യക്തമായി പറയാമോ?",
		LangManglish: "Ethu certificate allenkil sevanam anu vendathennu kurachukoodi vyakthamayi parayamo?",
	},
	KeyLanguageChanged: {
		LangEN:       "Sure, I will reply in English from now on.",
		LangML:       "ശരി, ഇനി മുതൽ മലയാളത്തിൽ മറുപടി നൽകാം.",
		LangManglish: "Sheri, ini muthal Manglish-il reply tharaam.",
	},
}

// Text returns the prompt for key in lang, falling back to English
// when a translation is missing.
func Text(key Key, lang Language) string {
	variants, ok := bundle[key]
	if !ok {
		return ""
	}

	if text, ok := variants[lang]; ok {
		return text
	}

	return variants[LangEN]
}
