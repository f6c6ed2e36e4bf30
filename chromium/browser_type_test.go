/*
 *
 * xk6-browser - a browser automation extension for k6
 * Copyright (C) 2021 Load Impact
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

package chromium

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuxd6825/steplog/errext"
	"github.com/liuxd6825/steplog/errext/exitcodes"
)

func TestBrowserTypeFlags(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		flag                      string
		changeOpts                LaunchOptions
		expInitVal, expChangedVal any
		post                      func(t *testing.T, flags map[string]any)
	}{
		{
			flag:          "browser-arg",
			changeOpts:    LaunchOptions{Args: []string{"browser-arg=value"}},
			expChangedVal: "value",
		},
		{
			flag:          "browser-arg-flag",
			changeOpts:    LaunchOptions{Args: []string{"--browser-arg-flag"}},
			expChangedVal: "",
		},
		{
			flag: "browser-arg-trim-double-quote",
			changeOpts: LaunchOptions{Args: []string{
				`   browser-arg-trim-double-quote =  "value  "  `,
			}},
			expChangedVal: "value  ",
		},
		{
			flag: "browser-arg-trim-single-quote",
			changeOpts: LaunchOptions{Args: []string{
				`   browser-arg-trim-single-quote=' value '`,
			}},
			expChangedVal: " value ",
		},
		{
			flag: "browser-args",
			changeOpts: LaunchOptions{Args: []string{
				"browser-arg1='value1", "browser-arg2=''value2''", "browser-flag",
			}},
			post: func(t *testing.T, flags map[string]any) {
				assert.Equal(t, "'value1", flags["browser-arg1"])
				assert.Equal(t, "'value2'", flags["browser-arg2"])
				assert.Equal(t, "", flags["browser-flag"])
			},
		},
		{
			flag:       "window-size",
			expInitVal: "1280,720",
			changeOpts: LaunchOptions{IgnoreDefaultArgs: []string{"--window-size"}},
		},
		{
			flag:          "hide-scrollbars",
			changeOpts:    LaunchOptions{Headless: true},
			expChangedVal: true,
			post: func(t *testing.T, flags map[string]any) {
				assert.Contains(t, flags, "mute-audio")
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.flag, func(t *testing.T) {
			t.Parallel()

			var (
				bt    = NewBrowserType(nil)
				flags = bt.flags(LaunchOptions{})
			)

			if tc.expInitVal != nil {
				require.Contains(t, flags, tc.flag)
				assert.Equal(t, tc.expInitVal, flags[tc.flag])
			} else {
				require.NotContains(t, flags, tc.flag)
			}

			flags = bt.flags(tc.changeOpts)
			if tc.expChangedVal != nil {
				assert.Equal(t, tc.expChangedVal, flags[tc.flag])
			} else {
				assert.NotContains(t, flags, tc.flag)
			}

			if tc.post != nil {
				tc.post(t, flags)
			}
		})
	}
}

func TestConnectWithoutURL(t *testing.T) {
	t.Parallel()

	_, err := NewBrowserType(nil).Connect(context.Background(), "")
	require.Error(t, err)

	var ecerr errext.HasExitCode
	require.True(t, errors.As(err, &ecerr))
	assert.Equal(t, exitcodes.BrowserUnavailable, ecerr.ExitCode())
	assert.NotEmpty(t, errext.HintOf(err))
	assert.Equal(t, "chromium", NewBrowserType(nil).Name())
}
