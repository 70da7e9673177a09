package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/freight-dwh/modules/dwh/domain"
)

func TestDeriveMergeState(t *testing.T) {
	require.Equal(t, StateAbsent, DeriveMergeState(false, ""))
	require.Equal(t, StateFallback, DeriveMergeState(true, "AR"))
	require.Equal(t, StateAuthoritative, DeriveMergeState(true, "CSL"))
}

func TestMergeState_HeaderWriteRules(t *testing.T) {
	require.True(t, StateAbsent.allowsHeaderWrite(domain.SourceAR))
	require.False(t, StateFallback.allowsHeaderWrite(domain.SourceAR))
	require.False(t, StateAuthoritative.allowsHeaderWrite(domain.SourceAR))

	require.True(t, StateAbsent.allowsHeaderWrite(domain.SourceCSL))
	require.True(t, StateFallback.allowsHeaderWrite(domain.SourceCSL))
	require.True(t, StateAuthoritative.allowsHeaderWrite(domain.SourceCSL))
}

func TestMergeState_PurgeRules(t *testing.T) {
	require.True(t, StateFallback.purgesFallback(domain.SourceCSL))
	require.False(t, StateAbsent.purgesFallback(domain.SourceCSL))
	require.False(t, StateAuthoritative.purgesFallback(domain.SourceCSL))
	require.False(t, StateFallback.purgesFallback(domain.SourceAR))
}
