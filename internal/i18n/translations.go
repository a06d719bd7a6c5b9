package i18n

// translations maps locale code to a flat table of dotted keys. The strings
// the CLI needs; screens own the rest of the product copy.
var translations = map[Language]map[string]string{
	LanguageEnglish: {
		"common.appName":          "Loan Compass",
		"common.loading":          "Loading...",
		"common.error":            "An error occurred",
		"common.logout":           "Logout",
		"auth.login":              "Login",
		"auth.phoneNumber":        "Phone Number",
		"auth.otpSent":            "We have sent an OTP to your phone",
		"auth.enterOTP":           "Enter the 4-digit code",
		"auth.loginSuccess":       "Login successful",
		"auth.invalidOTP":         "Invalid OTP. Please try again.",
		"dashboard.welcome":       "Welcome",
		"dashboard.trustScore":    "Trust Score",
		"dashboard.availableLoan": "Available Loan Amount",
		"loan.amount":             "Amount",
		"loan.purpose":            "Purpose",
		"loan.history":            "Loan History",
		"loan.dueDate":            "Due Date",
		"loan.transactionHash":    "Transaction Hash",
		"loan.requestSuccess":     "Loan request submitted successfully",
		"loan.repaySuccess":       "Loan repaid successfully",
		"trust.breakdown":         "Score Breakdown",
		"trust.badges":            "Badges",
		"trust.noBadges":          "You have no badges yet",
	},
	LanguageHindi: {
		"common.appName":          "लोन कंपास",
		"common.loading":          "लोड हो रहा है...",
		"common.error":            "एक त्रुटि हुई",
		"common.logout":           "लॉगआउट",
		"auth.login":              "लॉगिन",
		"auth.phoneNumber":        "फ़ोन नंबर",
		"auth.otpSent":            "हमने आपके फोन पर एक ओटीपी भेजा है",
		"auth.enterOTP":           "4-अंकों का कोड दर्ज करें",
		"auth.loginSuccess":       "लॉगिन सफल",
		"auth.invalidOTP":         "अमान्य ओटीपी। कृपया पुनः प्रयास करें।",
		"dashboard.welcome":       "स्वागत",
		"dashboard.trustScore":    "ट्रस्ट स्कोर",
		"dashboard.availableLoan": "उपलब्ध लोन राशि",
		"loan.amount":             "राशि",
		"loan.purpose":            "उद्देश्य",
		"loan.history":            "लोन इतिहास",
		"loan.dueDate":            "देय तिथि",
		"loan.transactionHash":    "लेनदेन हैश",
		"loan.requestSuccess":     "लोन अनुरोध सफलतापूर्वक जमा किया गया",
		"loan.repaySuccess":       "लोन सफलतापूर्वक चुकाया गया",
		"trust.breakdown":         "स्कोर विश्लेषण",
		"trust.badges":            "बैज",
		"trust.noBadges":          "आपके पास अभी कोई बैज नहीं है",
	},
	LanguageTamil: {
		"common.appName":          "கடன் திசைகாட்டி",
		"common.loading":          "ஏற்றுகிறது...",
		"common.error":            "பிழை ஏற்பட்டது",
		"common.logout":           "வெளியேறு",
		"auth.login":              "உள்நுழைய",
		"auth.phoneNumber":        "தொலைபேசி எண்",
		"auth.otpSent":            "நாங்கள் உங்கள் தொலைபேசிக்கு OTP அனுப்பியுள்ளோம்",
		"auth.enterOTP":           "4-இலக்க குறியீட்டை உள்ளிடவும்",
		"auth.loginSuccess":       "உள்நுழைவு வெற்றி",
		"auth.invalidOTP":         "தவறான OTP. மீண்டும் முயற்சிக்கவும்.",
		"dashboard.welcome":       "வரவேற்கிறோம்",
		"dashboard.trustScore":    "நம்பகத்தன்மை மதிப்பெண்",
		"dashboard.availableLoan": "கிடைக்கக்கூடிய கடன் தொகை",
		"loan.amount":             "தொகை",
		"loan.purpose":            "நோக்கம்",
		"loan.history":            "கடன் வரலாறு",
		"loan.dueDate":            "காலக்கெடு",
		"loan.transactionHash":    "பரிவர்த்தனை ஹாஷ்",
		"loan.requestSuccess":     "கடன் கோரிக்கை வெற்றிகரமாக சமர்ப்பிக்கப்பட்டது",
		"loan.repaySuccess":       "கடன் வெற்றிகரமாக திருப்பிச் செலுத்தப்பட்டது",
		"trust.breakdown":         "மதிப்பெண் பகுப்பாய்வு",
		"trust.badges":            "பதக்கங்கள்",
		"trust.noBadges":          "உங்களிடம் இன்னும் பதக்கங்கள் இல்லை",
	},
}
