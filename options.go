// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package orgparse

// Options configures [Parse] and [ParseContext]. The zero Options is the
// default and only configuration this package currently implements.
//
// No field yet changes parsing behavior. The type exists so that
// affiliated-keyword handling, a configurable TODO-keyword set, and
// first-class timestamp parsing can be added later without breaking the
// signature of Parse.
type Options struct{}
