package constants

const (
	MsgMissionNotFound      = "Mission not found"
	MsgMissionExists        = "A mission already exists for this thread"
	MsgMissionClosed        = "This mission is already closed"
	MsgUserNotFound         = "User not found"
	MsgRateeNotFound        = "Could not find the user being evaluated"
	MsgNotMissionCreator    = "Only the mission creator can evaluate helpers"
	MsgSelfEvaluation       = "You cannot evaluate yourself"
	MsgAlreadyEvaluated     = "This user has already been evaluated"
	MsgRewardDelivery       = "Could not deliver rewards"
	MsgNoEvaluationToAdjust = "This user has no evaluation in this mission to adjust"
	MsgSameRank             = "The new rank is the same as the current one"
	MsgReporterNotEvaluated = "You were not evaluated in this mission, so you cannot report it"
	MsgItemNotFound         = "Item not found"
	MsgItemNotOwned         = "You do not own this item. Buy it first!"
	MsgItemNotEquippable    = "This item cannot be equipped"
	MsgItemNotConsumable    = "This item cannot be used"
	MsgInsufficientFunds    = "Insufficient balance"
	MsgPaymentFailed        = "Payment failed. The purchase was cancelled"
	MsgItemDeliveryFailed   = "Could not deliver the item. The purchase was cancelled"
)
