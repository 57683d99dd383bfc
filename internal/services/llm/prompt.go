package llm

// CaptionPrompt instructs the vision model to return a short scene caption.
const CaptionPrompt = `You caption home videos for file naming.
Look at the frame and describe the main subject and action in three to six plain English words.
Do not mention that it is an image, frame, photo, or video.
Do not include dates, numbers, punctuation, or emoji.
Respond with JSON only: {"caption": "<words>"}`
