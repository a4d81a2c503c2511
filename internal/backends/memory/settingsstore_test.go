package memory

import (
	"context"

	"hsforms/internal/types"
)

func (s *UnitTestSuite) TestSettingsStore() {
	ctx := context.Background()
	st := NewSettingsStore()

	_, err := st.GetSettings(ctx)
	s.ErrorIs(err, types.ErrNotFound)

	in := types.Settings{Token: "pat-na1-abc", PortalID: "555", Limit: 50}
	s.NoError(st.PutSettings(ctx, in))
	out, err := st.GetSettings(ctx)
	s.NoError(err)
	s.Equal(in, out)

	err = st.PutSettings(ctx, types.Settings{Limit: -1})
	s.ErrorIs(err, types.ErrInvalidSettings)

	s.NoError(st.ClearSettings(ctx))
	_, err = st.GetSettings(ctx)
	s.ErrorIs(err, types.ErrNotFound)
}
