package constants

const CALL_SESSION_COLLECTION = "CallSessions"
