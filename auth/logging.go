/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package auth

import "github.com/humaidq/headcircle/logging"

var logger = logging.Logger(logging.SourceAuth)
