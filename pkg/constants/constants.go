package constants

type ContextKey string

const TxKey ContextKey = "tx"
