package registry

import "sync"

// Names of the superorganism runtime types. They mirror the on-chain
// definitions exactly and must not be renamed.
const (
	TypeAddress        = "Address"
	TypeLookupSource   = "LookupSource"
	TypeStates         = "States"
	TypeProposalCID    = "ProposalCID"
	TypeConcernCID     = "ConcernCID"
	TypeDocumentCID    = "DocumentCID"
	TypeProposal       = "Proposal"
	TypeConcern        = "Concern"
	TypeVecDeque       = "VecDeque"
	TypeProposalWinner = "ProposalWinner"
	TypeIdentityLevel  = "IdentityLevel"
	TypeProofType      = "ProofType"
	TypeIdentityID     = "IdentityId"
	TypeTicket         = "Ticket"
	TypeProjectID      = "ProjectID"
	TypeWorker         = "Worker"
	TypeProject        = "Project"
	TypePRJ            = "PRJ"
	TypeID             = "ID"
	TypePW             = "PW"
	TypeTimestamp      = "Timestamp"
)

// StateVariants are the States enum variants in discriminant order.
var StateVariants = []string{
	"Uninitialized",
	"Propose",
	"VotePropose",
	"Concern",
	"VoteConcern",
	"VoteCouncil",
}

var superorganism = sync.OnceValue(func() *Registry {
	r, err := NewBuilder().
		Alias(TypeAddress, "AccountId").
		Alias(TypeLookupSource, "AccountId").
		Enum(TypeStates, StateVariants...).
		Alias(TypeProposalCID, "Vec<u8>").
		Alias(TypeConcernCID, TypeProposalCID).
		Alias(TypeDocumentCID, TypeProposalCID).
		Struct(TypeProposal,
			F("proposal", TypeProposalCID),
			F("votes", "u32"),
		).
		Struct(TypeConcern,
			F("associated_proposal", TypeProposalCID),
			F("concern", TypeConcernCID),
			F("votes", "u32"),
		).
		Alias(TypeVecDeque, "Vec<ProposalWinner>").
		Struct(TypeProposalWinner,
			F("concerns", "Vec<ConcernCID>"),
			F("proposer", TypeIdentityID),
			F("proposal", TypeProposalCID),
			F("vote_ratio", "Permill"),
		).
		Alias(TypeIdentityLevel, "u8").
		Alias(TypeProofType, "[u8; 32]").
		Alias(TypeIdentityID, "AccountId").
		Alias(TypeTicket, "u64").
		Alias(TypeProjectID, "u64").
		Struct(TypeWorker,
			F("worker", TypeIdentityID),
			F("job_description", TypeDocumentCID),
			F("salary", "Balance"),
			F("hired", "BlockNumber"),
		).
		Struct(TypeProject,
			F("id", TypeProjectID),
			F("proposal", TypeProposalWinner),
			F("project_leader", "Option<Worker>"),
			F("open_positions", "Vec<DocumentCID>"),
			F("workers", "Vec<Worker>"),
			F("deadline", "BlockNumber"),
		).
		Alias(TypePRJ, TypeProject).
		Alias(TypeID, TypeIdentityID).
		Alias(TypePW, TypeProposalWinner).
		Alias(TypeTimestamp, "u64").
		Build()
	if err != nil {
		panic(err)
	}
	return r
})

// Superorganism returns the type registry of the superorganism runtime.
// It is built once and shared; callers cannot modify it.
func Superorganism() *Registry {
	return superorganism()
}
