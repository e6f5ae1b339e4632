package domain

type CtxKey string

const (
	KeyOrgID   CtxKey = "OrgID"
	KeyActorID CtxKey = "ActorID"
)
