package assistant

// Browser speech recognition error codes.
const (
	SpeechNoSpeech     = "no-speech"
	SpeechAudioCapture = "audio-capture"
	SpeechNotAllowed   = "not-allowed"
	SpeechNetwork      = "network"
	SpeechAborted      = "aborted"
)

var speechMessages = map[string]string{
	SpeechNoSpeech:     "No speech was detected. Please try again.",
	SpeechAudioCapture: "No microphone was found. Please check your audio settings.",
	SpeechNotAllowed:   "Microphone access was denied. Please allow microphone access to use voice input.",
	SpeechNetwork:      "A network error interrupted voice input. Please check your connection.",
	SpeechAborted:      "Voice input was stopped.",
}

// SpeechErrorMessage maps a speech recognition error code to a message for
// the user. Unknown codes get a generic message.
func SpeechErrorMessage(code string) string {
	if msg, ok := speechMessages[code]; ok {
		return msg
	}
	return "Voice input failed. Please type your question instead."
}
