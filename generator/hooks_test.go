package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReadHookQueryKey(t *testing.T) {
	op := &OperationDescriptor{
		Path:        "/pets/{petId}",
		Method:      "GET",
		Stem:        "GetPetById",
		PathParams:  []PathParam{{Name: "petId", Required: true}},
		QueryParams: []QueryParam{{Name: "verbose"}},
	}
	ts := &OperationTypeSet{
		ResponseName: "GetPetById_Response",
		ParamsName:   "GetPetById_Parameters",
	}

	hook, ok := renderHookFactory(op, ts, "pets")
	require.True(t, ok)

	assert.True(t, hook.UsesQuery)
	assert.False(t, hook.UsesMutation)
	assert.Contains(t, hook.Source, "export const makeUseGetPetById = (requester: Requester) => {")
	assert.Contains(t, hook.Source, `queryKey: ["pets", "PetsByPetId", petId, params],`)
	assert.Contains(t, hook.Source, "const call = makeGetPetById(requester);")
	assert.Equal(t, "makeGetPetById", hook.Factory)
}

func TestRenderReadHookWithoutParams(t *testing.T) {
	op := &OperationDescriptor{
		Path:   "/pets",
		Method: "GET",
		Stem:   "ListPets",
	}
	ts := &OperationTypeSet{ResponseName: "ListPets_Response"}

	hook, ok := renderHookFactory(op, ts, "pets")
	require.True(t, ok)

	assert.Contains(t, hook.Source, `queryKey: ["pets", "Pets"],`, "no params entry without query params")
	assert.NotContains(t, hook.Source, "params?: TParams")
}

func TestRenderWriteHookBodyVariables(t *testing.T) {
	op := &OperationDescriptor{
		Path:           "/pets",
		Method:         "POST",
		Stem:           "CreatePet",
		HasRequestBody: true,
	}
	ts := &OperationTypeSet{
		ResponseName: "CreatePet_Response",
		RequestName:  "CreatePet_Request",
	}

	hook, ok := renderHookFactory(op, ts, "pets")
	require.True(t, ok)

	assert.True(t, hook.UsesMutation)
	assert.Contains(t, hook.Source, "useMutation<TResponse, unknown, TBody>({")
	assert.Contains(t, hook.Source, "mutationFn: (variables: TBody) => call(variables),")
}

func TestRenderWriteHookBodyAndQueryAsymmetry(t *testing.T) {
	op := &OperationDescriptor{
		Path:           "/pets/{petId}",
		Method:         "PUT",
		Stem:           "UpdatePet",
		PathParams:     []PathParam{{Name: "petId", Required: true}},
		QueryParams:    []QueryParam{{Name: "notify"}},
		HasRequestBody: true,
	}
	ts := &OperationTypeSet{
		ResponseName: "UpdatePet_Response",
		RequestName:  "UpdatePet_Request",
		ParamsName:   "UpdatePet_Parameters",
	}

	hook, ok := renderHookFactory(op, ts, "pets")
	require.True(t, ok)

	assert.Contains(t, hook.Source, "Known limitation: mutation variables carry only the request body")
	assert.Contains(t, hook.Source, "params?: TParams,", "query params are fixed at hook level")
	assert.Contains(t, hook.Source, "mutationFn: (variables: TBody) => call(petId, variables, params),")
}

func TestRenderWriteHookQueryOnlyVariables(t *testing.T) {
	op := &OperationDescriptor{
		Path:        "/pets/purge",
		Method:      "DELETE",
		Stem:        "PurgePets",
		QueryParams: []QueryParam{{Name: "before", Required: true}},
	}
	ts := &OperationTypeSet{
		ResponseNoContent: true,
		ParamsName:        "PurgePets_Parameters",
	}

	hook, ok := renderHookFactory(op, ts, "pets")
	require.True(t, ok)

	assert.Contains(t, hook.Source, "useMutation<TResponse, unknown, TParams>({")
	assert.Contains(t, hook.Source, "mutationFn: (variables: TParams) => call(variables),")
	assert.NotContains(t, hook.Source, "Known limitation")
}

func TestRenderWriteHookVoidVariables(t *testing.T) {
	op := &OperationDescriptor{
		Path:       "/pets/{petId}",
		Method:     "DELETE",
		Stem:       "DeletePet",
		PathParams: []PathParam{{Name: "petId", Required: true}},
	}
	ts := &OperationTypeSet{ResponseNoContent: true}

	hook, ok := renderHookFactory(op, ts, "pets")
	require.True(t, ok)

	assert.Contains(t, hook.Source, "useMutation<TResponse, unknown, void>({")
	assert.Contains(t, hook.Source, "mutationFn: () => call(petId),")
}

func TestRenderHookFactoryTraceSkipped(t *testing.T) {
	op := &OperationDescriptor{Path: "/debug", Method: "TRACE", Stem: "TraceDebug"}
	ts := &OperationTypeSet{ResponseMissing: true}

	_, ok := renderHookFactory(op, ts, "debug")
	assert.False(t, ok)
}
